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

package dictx

import (
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/dictx/apis"
)

// std is the process-wide default engine.
var std atomic.Pointer[Engine]

func init() {
	std.Store(New())
}

// Default returns the process-wide engine used by the package-level functions.
func Default() *Engine {
	return std.Load()
}

// SetDefault replaces the process-wide engine; nil is ignored.
func SetDefault(e *Engine) {
	if e != nil {
		std.Store(e)
	}
}

// Load merges d into the default engine's dictionary.
func Load(d apis.Dictionary) { Default().Load(d) }

// Lookup returns the value for key under code in the default engine.
func Lookup(code, key string) (string, bool) { return Default().Lookup(code, key) }

// LookupOrSelf is Engine.LookupOrSelf on the default engine.
func LookupOrSelf(code string, key any) (string, bool) { return Default().LookupOrSelf(code, key) }

// ReverseLookup is Engine.ReverseLookup on the default engine.
func ReverseLookup(code, value string) (string, bool, error) {
	return Default().ReverseLookup(code, value)
}

// KeysFor is Engine.KeysFor on the default engine.
func KeysFor(code string) map[string]string { return Default().KeysFor(code) }

// All is Engine.All on the default engine.
func All() apis.Dictionary { return Default().All() }

// Snapshot is Engine.Snapshot on the default engine.
func Snapshot(v any) (any, error) { return Default().Snapshot(v) }

// Fill is Engine.Fill on the default engine.
func Fill(v any) error { return Default().Fill(v) }

// RegisterBusinessPackages is Engine.RegisterBusinessPackages on the default engine.
func RegisterBusinessPackages(prefixes ...string) { Default().RegisterBusinessPackages(prefixes...) }

// RegisterTranslator is Engine.RegisterTranslator on the default engine.
func RegisterTranslator(id string, f apis.Factory) error {
	return Default().RegisterTranslator(id, f)
}

// RegisterTranslatorType is Engine.RegisterTranslatorType on the default engine.
func RegisterTranslatorType(id string, proto any) error {
	return Default().RegisterTranslatorType(id, proto)
}

// Config returns the default engine configuration.
func Config() apis.Config { return Default().Config() }

// SetConfig is Engine.SetConfig on the default engine.
func SetConfig(cfg apis.Config) { Default().SetConfig(cfg) }

// SetLogger is Engine.SetLogger on the default engine.
func SetLogger(l *zap.Logger) { Default().SetLogger(l) }

// SetBuilder is Engine.SetBuilder on the default engine.
func SetBuilder(b apis.Builder) { Default().SetBuilder(b) }

// Store returns the default engine's store.
func Store() apis.Store { return Default().Store() }

// Registry returns the default engine's registry.
func Registry() apis.Registry { return Default().Registry() }

// SetAll is Engine.SetAll on the default engine.
func SetAll(cfg *apis.Config, st apis.Store, reg apis.Registry, bld apis.Builder) {
	Default().SetAll(cfg, st, reg, bld)
}
