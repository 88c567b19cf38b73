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

package store

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

// ErrAmbiguousReverseMapping is matched (errors.Is) by every *AmbiguousError.
var ErrAmbiguousReverseMapping = errors.New("dictx(store): ambiguous reverse mapping")

// AmbiguousError reports a value that more than one key maps to under Code.
type AmbiguousError struct {
	Code  string
	Value string
	// Keys holds every key mapping to Value, sorted.
	Keys []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("dictx(store): value %q of code %q maps to %d keys %v",
		e.Value, e.Code, len(e.Keys), e.Keys)
}

// Unwrap lets errors.Is match ErrAmbiguousReverseMapping.
func (e *AmbiguousError) Unwrap() error { return ErrAmbiguousReverseMapping }

// New constructs an empty Store.
func New() apis.Store {
	s := &store{}
	s.st.Store(&snapshot{
		fwd: map[string]map[string]string{},
		rev: map[string]map[string][]string{},
	})
	return s
}

// snapshot is an immutable view of the whole dictionary.
// Buckets are never mutated after publication; a load replaces them.
type snapshot struct {
	fwd map[string]map[string]string
	rev map[string]map[string][]string
}

// store publishes snapshots through an atomic pointer.
// Readers never lock; writers are serialized by mu.
type store struct {
	mu sync.Mutex
	st atomic.Pointer[snapshot]
}

// Load merges every bucket of d over the existing one and rebuilds the
// reverse bucket of each touched code. Blank codes are ignored.
func (s *store) Load(d apis.Dictionary) {
	if len(d) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.st.Load()
	next := &snapshot{
		fwd: maps.Clone(old.fwd),
		rev: maps.Clone(old.rev),
	}

	for code, bucket := range d {
		if strings.TrimSpace(code) == "" {
			continue
		}
		merged := make(map[string]string, len(old.fwd[code])+len(bucket))
		maps.Copy(merged, old.fwd[code])
		maps.Copy(merged, bucket)

		next.fwd[code] = merged
		next.rev[code] = reverse(merged)
	}

	s.st.Store(next)
}

// reverse groups the keys of bucket by value. Key lists are sorted.
func reverse(bucket map[string]string) map[string][]string {
	rev := make(map[string][]string, len(bucket))
	for k, v := range bucket {
		rev[v] = append(rev[v], k)
	}
	for _, keys := range rev {
		slices.Sort(keys)
	}
	return rev
}

// View returns the current snapshot as a Reader.
func (s *store) View() apis.Reader {
	return s.st.Load()
}

// Lookup returns the value for key under code.
func (s *store) Lookup(code, key string) (string, bool) {
	return s.st.Load().Lookup(code, key)
}

// LookupOrSelf falls back to the key's own string form on a miss.
// A nil key (or nil pointer) is absent, never the literal "<nil>".
func (s *store) LookupOrSelf(code string, key any) (string, bool) {
	return s.st.Load().LookupOrSelf(code, key)
}

func (sn *snapshot) Lookup(code, key string) (string, bool) {
	v, ok := sn.fwd[code][key]
	return v, ok
}

func (sn *snapshot) LookupOrSelf(code string, key any) (string, bool) {
	k, ok := uref.Stringify(key)
	if !ok {
		return "", false
	}
	if v, ok := sn.Lookup(code, k); ok {
		return v, true
	}
	return k, true
}

// ReverseLookup returns the only key mapping to value under code.
func (s *store) ReverseLookup(code, value string) (string, bool, error) {
	keys := s.st.Load().rev[code][value]
	switch len(keys) {
	case 0:
		return "", false, nil
	case 1:
		return keys[0], true, nil
	default:
		return "", false, &AmbiguousError{Code: code, Value: value, Keys: slices.Clone(keys)}
	}
}

// KeysFor returns a copy of the bucket for code.
func (s *store) KeysFor(code string) map[string]string {
	if strings.TrimSpace(code) == "" {
		return map[string]string{}
	}
	b := s.st.Load().fwd[code]
	if b == nil {
		return map[string]string{}
	}
	return maps.Clone(b)
}

// All returns a deep copy of every bucket.
func (s *store) All() apis.Dictionary {
	fwd := s.st.Load().fwd
	out := make(apis.Dictionary, len(fwd))
	for code, b := range fwd {
		out[code] = maps.Clone(b)
	}
	return out
}

// Codes returns the known codes, sorted.
func (s *store) Codes() []string {
	return slices.Sorted(maps.Keys(s.st.Load().fwd))
}

// Count returns the number of known codes.
func (s *store) Count() int {
	return len(s.st.Load().fwd)
}
