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
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotAddressable is returned by Fill when a struct cannot be written
	// in place, e.g. when it was passed by value.
	ErrNotAddressable = errors.New("dictx(walker): value is not addressable")
	// ErrInvalidDirective is returned for malformed mapping tags.
	ErrInvalidDirective = errors.New("dictx(walker): invalid mapping directive")
	// ErrMaxDepth is returned when nesting exceeds Config.MaxDepth.
	ErrMaxDepth = errors.New("dictx(walker): max depth exceeded")
)

// FieldError identifies the object and field a traversal failed on.
// Field is empty when the failure concerns the object as a whole.
type FieldError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("dictx(walker): %v: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("dictx(walker): %v.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
