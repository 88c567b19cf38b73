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

package source

import (
	"encoding/hex"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"

	"dirpx.dev/dictx/apis"
)

// Fingerprint returns the hex xxh3-128 hash of raw payload bytes.
func Fingerprint(raw []byte) string {
	sum := xxh3.Hash128(raw).Bytes()
	return hex.EncodeToString(sum[:])
}

// FingerprintDictionary hashes the canonical JSON form of d, so equal
// dictionaries share a fingerprint regardless of how they were produced.
func FingerprintDictionary(d apis.Dictionary) (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return Fingerprint(raw), nil
}
