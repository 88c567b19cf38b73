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

package walker

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Result is the translated snapshot of one object: an ordered mapping from
// field key to a string, a nested *Result, a []any sequence, or nil.
// Keys keep field declaration order.
type Result struct {
	keys []string
	vals map[string]any
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{vals: map[string]any{}}
}

// Set stores v under key, keeping the position of an existing key.
func (r *Result) Set(key string, v any) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the value under key.
func (r *Result) Get(key string) (any, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Text returns the string under key; nil and non-string values yield "".
func (r *Result) Text(key string) string {
	s, _ := r.vals[key].(string)
	return s
}

// Nested returns the nested *Result under key, or nil.
func (r *Result) Nested(key string) *Result {
	n, _ := r.vals[key].(*Result)
	return n
}

// Keys returns the keys in order.
func (r *Result) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of keys.
func (r *Result) Len() int { return len(r.keys) }

// Map converts r into plain maps and slices, recursively.
func (r *Result) Map() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = plain(r.vals[k])
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case *Result:
		if x == nil {
			return nil
		}
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes r as a JSON object in key order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
