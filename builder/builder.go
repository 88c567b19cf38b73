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

package builder

import (
	"dirpx.dev/dictx/apis"
	"dirpx.dev/dictx/classifier"
	"dirpx.dev/dictx/registry"
	"dirpx.dev/dictx/store"
	"dirpx.dev/dictx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildStore returns prev when present so loaded dictionaries survive a
// configuration change; otherwise it returns an empty store.
func (b *builder) BuildStore(_ apis.Config, prev apis.Store) apis.Store {
	if prev != nil {
		return prev
	}
	return store.New()
}

// BuildRegistry returns prev when present so translator singletons survive
// a configuration change; otherwise it returns a registry holding the
// built-in translators.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry) apis.Registry {
	if prev != nil {
		return prev
	}
	reg := registry.New()
	strategy.RegisterBuiltins(reg)
	return reg
}

// BuildClassifier builds the standard rule chain over cfg.BusinessPackages.
func (b *builder) BuildClassifier(cfg apis.Config) apis.Classifier {
	return classifier.Default(cfg.BusinessPackages)
}
