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

package apis

import "reflect"

// Bearer is implemented by types that opt into translation regardless of
// the package they live in.
type Bearer interface {
	DictBearer()
}

// Marker can be embedded in a struct to make it a Bearer.
type Marker struct{}

// DictBearer implements Bearer.
func (Marker) DictBearer() {}

// Rule is one step of a classification chain.
type Rule interface {
	// TryClassify reports whether t is translatable. handled == false means
	// the rule has no opinion and the next rule should be consulted.
	TryClassify(t reflect.Type) (translatable bool, handled bool)
	// Business reports whether the rule identifies business-object types.
	Business() bool
}

// Classifier decides what the walker recurses into.
type Classifier interface {
	// IsBusinessType reports whether t (pointers stripped) lies under one of
	// the registered business-package prefixes.
	IsBusinessType(t reflect.Type) bool
	// IsTranslatable reports whether v is non-nil and is a Bearer, a
	// collection, or of a business-object type.
	IsTranslatable(v reflect.Value) bool
}
