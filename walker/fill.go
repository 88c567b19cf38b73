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
	"fmt"
	"reflect"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

// Fill translates v in place: every string-kinded field carrying a mapping
// directive is overwritten with its translation ("" when absent). v must be
// a pointer or a collection of addressable objects.
//
// Unlike Snapshot, Fill stops at the first failure and returns it; fields
// already written stay written. Each object is filled at most once per call.
func (w *Walker) Fill(v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dictx(walker): fill panicked: %v", r)
		}
	}()

	f := &filler{w: w, dict: w.view(), visited: map[visitKey]struct{}{}}
	return f.value(reflect.ValueOf(v), 0)
}

// filler holds the state of one Fill call.
type filler struct {
	w    *Walker
	dict apis.Reader
	// visited holds every pointer filled so far.
	visited map[visitKey]struct{}
}

func (f *filler) value(v reflect.Value, depth int) error {
	if !f.w.cls.IsTranslatable(v) {
		return nil
	}
	rv, ok, err := uref.Indirect(v)
	if err != nil {
		return &FieldError{Type: v.Type(), Err: err}
	}
	if !ok {
		return nil
	}
	if depth > f.w.cfg.MaxDepth {
		return &FieldError{Type: rv.Type(), Err: ErrMaxDepth}
	}

	if v.Kind() == reflect.Ptr {
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if _, seen := f.visited[key]; seen {
			return nil
		}
		f.visited[key] = struct{}{}
	}

	if uref.IsCollection(rv.Type()) {
		for i := 0; i < rv.Len(); i++ {
			if err := f.value(rv.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if !rv.CanAddr() {
		return &FieldError{Type: rv.Type(), Err: ErrNotAddressable}
	}
	return f.object(rv, depth)
}

func (f *filler) object(rv reflect.Value, depth int) error {
	fields, err := describe(rv.Type(), f.w.cfg)
	if err != nil {
		return err
	}

	for _, fd := range fields {
		fv, ferr := rv.FieldByIndexErr(fd.Index)
		if ferr != nil {
			// Promoted through a nil embedded pointer: nothing to fill.
			continue
		}

		switch {
		case uref.IsCollection(fd.Type), f.w.cls.IsBusinessType(fd.Type):
			if err := f.value(fv, depth+1); err != nil {
				return err
			}
			continue
		case fd.Directive == nil, fd.Type.Kind() != reflect.String:
			continue
		}

		if err := f.fill(rv, fd, fv); err != nil {
			return &FieldError{Type: rv.Type(), Field: fd.Name, Err: err}
		}
	}
	return nil
}

// fill overwrites one string field with its translation.
func (f *filler) fill(owner reflect.Value, fd apis.Field, fv reflect.Value) error {
	if !fv.CanSet() {
		return ErrNotAddressable
	}
	tr, err := f.w.reg.Resolve(fd.Directive.TranslatorID())
	if err != nil {
		return err
	}

	s, _ := tr.Translate(apis.Request{
		Owner:     ownerOf(owner),
		Field:     fd,
		Value:     fv.String(),
		Directive: *fd.Directive,
		Dict:      f.dict,
	})
	fv.SetString(s)
	return nil
}
