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

package strategy

import (
	"strings"

	"dirpx.dev/dictx/apis"
)

// Delimiter separates the parts of a multi-value field.
const Delimiter = ","

// splitParts splits s on Delimiter and trims every part. Trailing empty
// parts are dropped, so "1,2," yields two parts.
func splitParts(s string) []string {
	parts := strings.Split(s, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// joinParts resolves each part of s, appends suffix to each result and
// rejoins them with Delimiter.
func joinParts(s, suffix string, resolve func(part string) string) string {
	parts := splitParts(s)
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(Delimiter)
		}
		b.WriteString(resolve(p))
		b.WriteString(suffix)
	}
	return b.String()
}

// orSelf resolves part under code with a fallback to the part itself.
func orSelf(dict apis.Reader, code string) func(string) string {
	return func(part string) string {
		v, _ := dict.LookupOrSelf(code, part)
		return v
	}
}
