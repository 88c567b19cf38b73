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

package classifier

import (
	"reflect"
	"slices"
	"strings"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

// PrefixRule accepts named types whose qualified name ("import/path.Name")
// starts with one of prefixes. The slice is copied.
func PrefixRule(prefixes []string) apis.Rule {
	return prefixRule{prefixes: slices.Clone(prefixes)}
}

type prefixRule struct {
	prefixes []string
}

// TryClassify only ever accepts; a non-matching type is left to later rules.
func (r prefixRule) TryClassify(t reflect.Type) (bool, bool) {
	name := uref.QualifiedName(t)
	if name == "" {
		return false, false
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(name, p) {
			return true, true
		}
	}
	return false, false
}

func (prefixRule) Business() bool { return true }
