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

package reflect

import (
	"errors"
	"fmt"
	"reflect"
)

// MaxIndirect bounds pointer/interface unwrapping (e.g. ***T).
const MaxIndirect = 8

// ErrTooManyIndirections is returned when unwrapping exceeds MaxIndirect.
var ErrTooManyIndirections = errors.New("reflect: too many pointer indirections")

// Indirect unwraps pointers and interfaces until it reaches a concrete value.
//
// Unwrapping policy:
//   - ptr/interface -> Elem(); a nil pointer or interface yields ok == false
//   - invalid values yield ok == false
//   - anything else is returned as-is
//
// Values reached through a pointer stay addressable, so Indirect is safe to
// use on the write path.
func Indirect(v reflect.Value) (reflect.Value, bool, error) {
	for i := 0; i <= MaxIndirect; i++ {
		if !v.IsValid() {
			return reflect.Value{}, false, nil
		}
		switch v.Kind() {
		case reflect.Ptr, reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}, false, nil
			}
			v = v.Elem()
		default:
			return v, true, nil
		}
	}
	return reflect.Value{}, false, ErrTooManyIndirections
}

// IndirectType strips pointer layers from t (at most MaxIndirect).
func IndirectType(t reflect.Type) reflect.Type {
	for i := 0; t != nil && t.Kind() == reflect.Ptr && i < MaxIndirect; i++ {
		t = t.Elem()
	}
	return t
}

// IsCollection reports whether t (pointers stripped) is a slice or array.
// Byte slices and arrays are scalar payloads, not collections.
func IsCollection(t reflect.Type) bool {
	t = IndirectType(t)
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// QualifiedName returns "import/path.TypeName" for the nearest named type
// behind pointers, or "" for builtin and unnamed types.
func QualifiedName(t reflect.Type) string {
	t = IndirectType(t)
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}

// Stringify returns the string form of a raw field value.
// nil and nil pointers yield ok == false; pointers are dereferenced first.
func Stringify(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	rv, ok, err := Indirect(reflect.ValueOf(v))
	if err != nil || !ok {
		return "", false
	}
	if !rv.CanInterface() {
		return "", false
	}
	return fmt.Sprint(rv.Interface()), true
}
