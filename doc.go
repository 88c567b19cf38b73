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

// Package dictx translates coded values embedded in business objects into
// human-readable strings using a process-wide code dictionary.
//
// A status field holding "1" becomes "未开始" without the business object
// knowing anything about the dictionary: fields opt in with a struct tag
//
//	type Task struct {
//		Status   string `dict:"taskStatus"`
//		Priority string `dict:"code=priority,suffix=任务,translator=multi"`
//		Owner    *User  // a business object: traversed, not translated
//	}
//
// # Design
//
// An Engine is a read-mostly snapshot (state) of five layers:
//
//   - Config: the struct tag key, how result keys are named, the depth
//     guard and the business-package prefixes.
//
//   - Store: the dictionary, code -> key -> value, plus a reverse index
//     code -> value -> keys. Loads merge whole code buckets and publish a
//     new immutable snapshot, so readers see a code's bucket either before
//     or after a load, never half-merged.
//
//   - Registry: translator strategies by id. Each id is constructed once,
//     on first use, and shared. "single" and "multi" are built in.
//
//   - Classifier: decides which values the walker descends into: types
//     under a registered business-package prefix, collections, and types
//     implementing apis.Bearer.
//
//   - Builder: constructs the other layers for a Config. The default
//     builder reuses the previous store and registry, so loaded
//     dictionaries and translator singletons survive a config change.
//
// Readers load the current state atomically and never lock. Writers take a
// short build mutex, assemble a new state and swap it in.
//
// # Output modes
//
// Snapshot builds a translated copy and leaves its input alone:
//
//	out, err := dictx.Snapshot(task) // *walker.Result, ordered, JSON-ready
//
// Traversal failures in Snapshot are logged and degrade to an empty result
// for the failing object. Fill overwrites string fields in place and
// stops at the first failure:
//
//	err := dictx.Fill(&task)
//
// Both return a *registry.InstantiationError when a tag names a translator
// that cannot be built.
//
// # Global API
//
// The package-level functions operate on Default(), a process-wide Engine.
// Initialization order is: register business packages, load the
// dictionary, serve traffic.
//
//	dictx.RegisterBusinessPackages("example.com/app/domain")
//	dictx.Load(apis.Dictionary{"taskStatus": {"1": "未开始"}})
//
// Tests and embedding programs that need isolation construct their own
// Engine with New and pass it explicitly.
//
// # Collaborators
//
// Dictionary data comes from outside: package source fetches it from
// files, HTTP or SQL together with a content fingerprint, and package
// refresh reloads it only when the fingerprint changes. The dictx command
// exposes the engine over HTTP and on the command line.
package dictx
