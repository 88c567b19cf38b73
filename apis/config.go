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

// Config carries read-only translation knobs that influence the walker and
// the classification policy. It is passed by value and should be treated as
// immutable by implementations; BusinessPackages must not be mutated in place.
type Config struct {
	// TagKey is the struct tag key that carries mapping directives
	// (e.g. `dict:"code=taskStatus"`).
	TagKey string

	// FieldNaming selects the key under which a field is stored in a
	// snapshot result.
	FieldNaming FieldNaming

	// MaxDepth limits object-graph nesting during traversal.
	// Acts as a safety guard against pathological graphs.
	MaxDepth int

	// BusinessPackages lists qualified-name prefixes ("example.com/app/domain")
	// whose types are business objects eligible for recursion.
	BusinessPackages []string
}
