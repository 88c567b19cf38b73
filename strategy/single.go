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
	uref "dirpx.dev/dictx/utils/reflect"
)

const (
	// SingleID is the id of Single; it is the default translator.
	SingleID = apis.DefaultTranslator
	// MultiID is the id of Multi.
	MultiID = "multi"
)

// Single translates one coded value with a plain lookup.
//
//   - nil value: absent
//   - blank value: returned as-is, without the suffix
//   - delimited value: every part resolved with a fallback to itself
//   - otherwise: dictionary value plus suffix, absent on a miss
type Single struct{}

// Ensure Single implements apis.Translator.
var _ apis.Translator = Single{}

// Translate implements apis.Translator.
func (Single) Translate(req apis.Request) (string, bool) {
	raw, ok := uref.Stringify(req.Value)
	if !ok || req.Dict == nil {
		return "", false
	}
	if strings.TrimSpace(raw) == "" {
		return raw, true
	}

	code := req.Directive.CodeFor(req.Field.Name)
	if strings.Contains(raw, Delimiter) {
		return joinParts(raw, req.Directive.Suffix, orSelf(req.Dict, code)), true
	}

	v, ok := req.Dict.Lookup(code, raw)
	if !ok {
		return "", false
	}
	return v + req.Directive.Suffix, true
}

// Multi translates delimited values part by part. Unmatched parts pass
// through untranslated; a blank value yields the bare suffix.
type Multi struct{}

// Ensure Multi implements apis.Translator.
var _ apis.Translator = Multi{}

// Translate implements apis.Translator.
func (Multi) Translate(req apis.Request) (string, bool) {
	raw, ok := uref.Stringify(req.Value)
	if !ok || req.Dict == nil {
		return "", false
	}
	if strings.TrimSpace(raw) == "" {
		return req.Directive.Suffix, true
	}

	code := req.Directive.CodeFor(req.Field.Name)
	return joinParts(raw, req.Directive.Suffix, orSelf(req.Dict, code)), true
}

// RegisterBuiltins registers Single and Multi on reg.
// Ids that are already taken are left alone.
func RegisterBuiltins(reg apis.Registry) {
	_ = reg.Register(SingleID, func() apis.Translator { return Single{} })
	_ = reg.Register(MultiID, func() apis.Translator { return Multi{} })
}
