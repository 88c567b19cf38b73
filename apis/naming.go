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

import (
	"fmt"
	"strings"
)

// FieldNaming selects how snapshot result keys are derived from struct fields.
type FieldNaming int

const (
	// NamingGo uses the Go field name ("TaskStatus").
	NamingGo FieldNaming = iota

	// NamingJSON uses the name from the field's `json` tag when present
	// ("taskStatus"), falling back to the Go field name. A `json:"-"` tag
	// does not hide the field from translation.
	NamingJSON
)

func (n FieldNaming) String() string {
	switch n {
	case NamingGo:
		return "go"
	case NamingJSON:
		return "json"
	default:
		return fmt.Sprintf("Unknown(%d)", n)
	}
}

// ParseFieldNaming parses the textual form produced by String.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseFieldNaming(s string) (FieldNaming, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return NamingGo, fmt.Errorf("naming: empty field naming")
	}

	switch strings.ToLower(trimmed) {
	case "go":
		return NamingGo, nil
	case "json":
		return NamingJSON, nil
	default:
		return NamingGo, fmt.Errorf("naming: unknown field naming %q", s)
	}
}
