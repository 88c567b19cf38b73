/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/dictx"
	"dirpx.dev/dictx/internal/httpapi"
	"dirpx.dev/dictx/refresh"
	"dirpx.dev/dictx/source"
)

// ShutdownTimeout bounds graceful HTTP shutdown in serve.
const ShutdownTimeout = 5 * time.Second

// NewRootCommand builds the dictx command tree. Each call gets its own
// viper instance, so commands can be constructed repeatedly in tests.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "dictx",
		Short: "Dictionary code translation service",
		Long: `dictx loads code dictionaries (code -> key -> label) from files, HTTP
endpoints or a SQL table, and serves them over HTTP.

Examples:
  dictx serve --source dict.yaml             # serve a file, reloading on change
  dictx dump --source http://host/dict -f toml
  dictx lookup taskStatus 2 --source dict.json
  dictx migrate --dsn ./dict.db && dictx import dict.json --dsn ./dict.db`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.sync()
		},
	}
	persistentFlags(root.PersistentFlags())
	_ = a.v.BindPFlags(root.PersistentFlags())

	root.AddCommand(
		a.serveCommand(),
		a.dumpCommand(),
		a.lookupCommand(),
		a.migrateCommand(),
		a.importCommand(),
	)
	return root
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dictionary over HTTP",
		Long: `Serve exposes the dictionary API. When a source is configured it is
polled every --interval and reloaded when its content changed; without a
source the dictionary starts empty and is filled through PUT /dict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	serveFlags(cmd.Flags())
	_ = a.v.BindPFlags(cmd.Flags())
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	eng := dictx.New(dictx.WithLogger(a.log))
	srv := httpapi.NewServer(eng, a.log)
	addr := a.v.GetString(flagAddr)

	src, closeSrc, err := a.source(ctx)
	switch {
	case errors.Is(err, ErrNoSource):
		a.log.Warn("no dictionary source configured; serving an empty dictionary")
	case err != nil:
		return err
	}
	defer closeSrc()

	g, ctx := errgroup.WithContext(ctx)
	if src != nil {
		r, err := refresh.New(src, eng,
			refresh.WithInterval(a.v.GetDuration(flagInterval)),
			refresh.WithLogger(a.log),
		)
		if err != nil {
			return err
		}
		g.Go(func() error {
			// Run only returns once ctx is done, whether cancelled or past
			// its deadline; either is a clean stop.
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		a.log.Info("listening", zap.String("addr", addr))
		if err := srv.Start(addr); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func (a *app) dumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the dictionary from the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := source.ParseFormat(a.v.GetString(flagFormat))
			if err != nil {
				return err
			}
			eng, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			out, err := source.Encode(f, eng.All())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	dumpFlags(cmd.Flags())
	_ = a.v.BindPFlags(cmd.Flags())
	return cmd
}

func (a *app) lookupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup CODE KEY",
		Short: "Print the label of KEY under CODE",
		Long: `Lookup prints the label stored for KEY under CODE. With --reverse the
second argument is a label and the matching key is printed; a label shared
by several keys is an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			code, arg := args[0], args[1]

			var (
				v  string
				ok bool
			)
			if a.v.GetBool(flagReverse) {
				v, ok, err = eng.ReverseLookup(code, arg)
				if err != nil {
					return err
				}
			} else {
				v, ok = eng.Lookup(code, arg)
			}
			if !ok {
				return fmt.Errorf("dictx(cli): %s/%s not found", code, arg)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
	lookupFlags(cmd.Flags())
	_ = a.v.BindPFlags(cmd.Flags())
	return cmd
}

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the dict_item table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn := a.v.GetString(flagDSN)
			if dsn == "" {
				return ErrNoDSN
			}
			url, err := source.MigrationURL(a.v.GetString(flagDriver), dsn)
			if err != nil {
				return err
			}
			v, err := source.Migrate(url)
			if err != nil {
				return err
			}
			a.log.Info("schema migrated", zap.Uint("version", v))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			return err
		},
	}
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Upsert a dictionary file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := source.NewFile(args[0])
			if err != nil {
				return err
			}
			p, err := f.Fetch(ctx)
			if err != nil {
				return err
			}
			db, err := a.database(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Put(ctx, p.Dictionary); err != nil {
				return err
			}
			a.log.Info("dictionary imported",
				zap.String("file", f.Path()),
				zap.Int("codes", len(p.Dictionary)),
				zap.String("fingerprint", p.Fingerprint),
			)
			return nil
		},
	}
}
