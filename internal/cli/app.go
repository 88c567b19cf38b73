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
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/dictx"
	"dirpx.dev/dictx/apis"
	"dirpx.dev/dictx/source"
)

var (
	// ErrNoSource is returned when neither --source nor --dsn is set.
	ErrNoSource = errors.New("dictx(cli): no dictionary source configured")
	// ErrNoDSN is returned by commands that need a database.
	ErrNoDSN = errors.New("dictx(cli): --dsn is required")
)

// app carries per-invocation state shared by the subcommands.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

// NewLogger builds a production zap logger at the named level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("dictx(cli): %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// setup loads the dotenv file, the config file and the logger. Flags win
// over the environment, which wins over the config file.
func (a *app) setup() error {
	if err := godotenv.Load(a.v.GetString(flagEnvFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("dictx(cli): load env file: %w", err)
	}

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if f := a.v.GetString(flagConfig); f != "" {
		a.v.SetConfigFile(f)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("dictx(cli): read config: %w", err)
		}
	} else {
		a.v.SetConfigName("dictx")
		a.v.AddConfigPath(".")
		if err := a.v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return fmt.Errorf("dictx(cli): read config: %w", err)
			}
		}
	}

	log, err := NewLogger(a.v.GetString(flagLogLevel))
	if err != nil {
		return err
	}
	a.log = log
	if used := a.v.ConfigFileUsed(); used != "" {
		log.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func (a *app) sync() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// source resolves the configured dictionary source. The returned close
// function is never nil.
func (a *app) source(ctx context.Context) (apis.Source, func() error, error) {
	nop := func() error { return nil }
	s := strings.TrimSpace(a.v.GetString(flagSource))
	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return source.NewHTTP(s), nop, nil
	case s != "":
		f, err := source.NewFile(s)
		if err != nil {
			return nil, nop, err
		}
		return f, nop, nil
	case a.v.GetString(flagDSN) != "":
		db, err := a.database(ctx)
		if err != nil {
			return nil, nop, err
		}
		return db, db.Close, nil
	default:
		return nil, nop, ErrNoSource
	}
}

func (a *app) database(ctx context.Context) (*source.SQL, error) {
	dsn := a.v.GetString(flagDSN)
	if dsn == "" {
		return nil, ErrNoDSN
	}
	return source.OpenSQL(ctx, a.v.GetString(flagDriver), dsn)
}

// engine returns a fresh Engine loaded once from the configured source.
func (a *app) engine(ctx context.Context) (*dictx.Engine, error) {
	src, closeSrc, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	p, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	eng := dictx.New(dictx.WithLogger(a.log))
	eng.Load(p.Dictionary)
	return eng, nil
}
