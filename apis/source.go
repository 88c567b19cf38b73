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

import "context"

// Payload is a freshly fetched dictionary together with the fingerprint of
// the content it was decoded from.
type Payload struct {
	Dictionary  Dictionary
	Fingerprint string
}

// Source fetches a complete dictionary from somewhere outside the process.
type Source interface {
	Fetch(ctx context.Context) (Payload, error)
}

// Loader is the write entry point sources feed into.
type Loader interface {
	Load(d Dictionary)
}
