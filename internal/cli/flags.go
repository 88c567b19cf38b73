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
	"time"

	"github.com/spf13/pflag"
)

// Flag names double as viper keys.
const (
	flagConfig   = "config"
	flagEnvFile  = "env-file"
	flagLogLevel = "log-level"
	flagSource   = "source"
	flagDriver   = "driver"
	flagDSN      = "dsn"
	flagAddr     = "addr"
	flagInterval = "interval"
	flagFormat   = "format"
	flagReverse  = "reverse"
)

// Defaults.
const (
	DefaultLogLevel = "info"
	DefaultDriver   = "sqlite3"
	DefaultAddr     = ":8080"
	DefaultInterval = time.Minute
	DefaultFormat   = "json"
	DefaultEnvFile  = ".env"
	EnvPrefix       = "DICTX"
)

func persistentFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "config file (default is ./dictx.yaml if present)")
	fs.String(flagEnvFile, DefaultEnvFile, "dotenv file loaded before reading the environment")
	fs.String(flagLogLevel, DefaultLogLevel, "log level: debug, info, warn, error")
	fs.String(flagSource, "", "dictionary source: a .json/.toml/.yaml file or an http(s) URL")
	fs.String(flagDriver, DefaultDriver, "database driver: sqlite3 or postgres")
	fs.String(flagDSN, "", "database DSN; used as the source when --source is empty")
}

func serveFlags(fs *pflag.FlagSet) {
	fs.String(flagAddr, DefaultAddr, "HTTP listen address")
	fs.Duration(flagInterval, DefaultInterval, "delay between source refreshes")
}

func dumpFlags(fs *pflag.FlagSet) {
	fs.StringP(flagFormat, "f", DefaultFormat, "output format: json, toml or yaml")
}

func lookupFlags(fs *pflag.FlagSet) {
	fs.BoolP(flagReverse, "r", false, "treat the argument as a value and print its key")
}
