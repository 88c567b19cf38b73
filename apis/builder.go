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

// Builder composes the engine layers from a Config.
// Implementations may reuse previous instances (prev*), or ignore them.
type Builder interface {
	// BuildStore constructs a Store. Loaded dictionaries live in the store,
	// so implementations should return prev when it is non-nil.
	BuildStore(cfg Config, prev Store) Store
	// BuildRegistry constructs a translator Registry. Cached singletons live
	// in the registry, so implementations should return prev when it is non-nil.
	BuildRegistry(cfg Config, prev Registry) Registry
	// BuildClassifier constructs the classification policy for cfg.
	BuildClassifier(cfg Config) Classifier
}
