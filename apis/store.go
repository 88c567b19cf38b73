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

// Dictionary maps a dictionary-type code to its key -> value bucket.
//
//	{"taskStatus": {"1": "未开始", "2": "进行中"}}
type Dictionary map[string]map[string]string

// Reader is the read-only view of a dictionary that translators consult.
type Reader interface {
	// Lookup returns the value for key under code.
	Lookup(code, key string) (value string, ok bool)
	// LookupOrSelf returns the value for key under code, or the key's own
	// string form when no entry exists. A nil key yields ("", false).
	LookupOrSelf(code string, key any) (value string, ok bool)
}

// Viewer is implemented by readers that can freeze a consistent view.
type Viewer interface {
	// View returns a Reader over the dictionary as it is now; later loads
	// are not visible through it.
	View() Reader
}

// Store is the process-wide dictionary with its reverse index.
// Implementations must be safe for concurrent use; a Load must appear atomic
// to readers of every code it touches.
type Store interface {
	Reader
	Viewer

	// Load merges each code bucket of d into the store, overwriting keys with
	// the same name, and rebuilds the reverse index of the touched codes.
	Load(d Dictionary)
	// ReverseLookup returns the single key whose value is value under code.
	// More than one key yields an error; an unknown value yields ("", false, nil).
	ReverseLookup(code, value string) (key string, ok bool, err error)
	// KeysFor returns a copy of the bucket for code (empty if unknown or blank).
	KeysFor(code string) map[string]string
	// All returns a deep copy of every bucket.
	All() Dictionary
	// Codes returns the known codes in sorted order.
	Codes() []string
	// Count returns the number of known codes.
	Count() int
}
