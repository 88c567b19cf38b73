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
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

// Walker traverses object graphs and translates fields carrying a mapping
// directive. It holds no mutable state and is safe for concurrent use.
type Walker struct {
	cfg  apis.Config
	dict apis.Reader
	reg  apis.Registry
	cls  apis.Classifier
	log  *zap.Logger
}

// New constructs a Walker. A nil logger disables logging.
func New(cfg apis.Config, dict apis.Reader, reg apis.Registry, cls apis.Classifier, log *zap.Logger) *Walker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Walker{cfg: cfg, dict: dict, reg: reg, cls: cls, log: log}
}

// visitKey identifies an object by address and type; a struct and its
// first field share an address.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// Snapshot returns a translated copy of v without modifying it: a *Result
// for an object, []any for a collection, or nil when v is not translatable.
//
// Traversal failures are logged and degrade to an empty *Result for the
// failing object. Only translator resolution failures are returned.
func (w *Walker) Snapshot(v any) (any, error) {
	s := &snapshot{w: w, dict: w.view(), path: map[visitKey]struct{}{}}
	return s.value(reflect.ValueOf(v), 0)
}

// view freezes the dictionary for one call when the reader supports it,
// so a traversal never mixes two loads.
func (w *Walker) view() apis.Reader {
	if v, ok := w.dict.(apis.Viewer); ok {
		return v.View()
	}
	return w.dict
}

// snapshot holds the state of one Snapshot call.
type snapshot struct {
	w    *Walker
	dict apis.Reader
	// path holds the pointers on the current traversal path.
	path map[visitKey]struct{}
}

func (s *snapshot) value(v reflect.Value, depth int) (any, error) {
	if !s.w.cls.IsTranslatable(v) {
		return nil, nil
	}
	rv, ok, err := uref.Indirect(v)
	if err != nil {
		s.w.log.Warn("dictx: snapshot skipped value", zap.Stringer("type", v.Type()), zap.Error(err))
		return NewResult(), nil
	}
	if !ok {
		return nil, nil
	}
	if depth > s.w.cfg.MaxDepth {
		s.w.log.Error("dictx: snapshot failed",
			zap.Stringer("type", rv.Type()), zap.Error(ErrMaxDepth), zap.Int("depth", depth))
		return NewResult(), nil
	}

	if v.Kind() == reflect.Ptr {
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if _, seen := s.path[key]; seen {
			s.w.log.Warn("dictx: snapshot cycle detected", zap.Stringer("type", v.Type()))
			return nil, nil
		}
		s.path[key] = struct{}{}
		defer delete(s.path, key)
	}

	if uref.IsCollection(rv.Type()) {
		return s.sequence(rv, depth)
	}
	return s.object(rv, depth)
}

// sequence snapshots every element of a slice or array.
func (s *snapshot) sequence(rv reflect.Value, depth int) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		e, err := s.value(rv.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// object snapshots the fields of a struct. Panics and traversal errors are
// recovered here, so a failing object yields an empty *Result.
func (s *snapshot) object(rv reflect.Value, depth int) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.w.log.Error("dictx: snapshot failed",
				zap.Stringer("type", rv.Type()), zap.Any("panic", r))
			res, err = NewResult(), nil
		}
	}()

	result := NewResult()
	if rv.Kind() != reflect.Struct {
		return result, nil
	}
	fields, derr := describe(rv.Type(), s.w.cfg)
	if derr != nil {
		s.w.log.Error("dictx: snapshot failed", zap.Stringer("type", rv.Type()), zap.Error(derr))
		return result, nil
	}

	for _, f := range fields {
		fv, ferr := rv.FieldByIndexErr(f.Index)
		if ferr != nil {
			// Promoted through a nil embedded pointer.
			fv = reflect.Value{}
		}

		if f.Directive == nil {
			switch {
			case s.w.cls.IsBusinessType(f.Type):
				if !fv.IsValid() {
					continue
				}
				sub, err := s.value(fv, depth+1)
				if err != nil {
					return nil, err
				}
				if sub != nil {
					result.Set(f.Key, sub)
				}
			case uref.IsCollection(f.Type):
				if !fv.IsValid() || isNil(fv) {
					continue
				}
				ev, ok, _ := uref.Indirect(fv)
				if !ok {
					continue
				}
				seq, err := s.sequence(ev, depth+1)
				if err != nil {
					return nil, err
				}
				result.Set(f.Key, seq)
			}
			continue
		}

		if prev, ok := result.Get(f.Key); ok && prev != nil {
			continue
		}

		out, err := s.w.translate(s.dict, rv, f, fv)
		if err != nil {
			return nil, err
		}
		result.Set(f.Key, out)
	}
	return result, nil
}

// translate dispatches one directive-carrying field: element-wise for a
// non-nil collection, once otherwise. Absent translations are nil.
func (w *Walker) translate(dict apis.Reader, owner reflect.Value, f apis.Field, fv reflect.Value) (any, error) {
	tr, err := w.reg.Resolve(f.Directive.TranslatorID())
	if err != nil {
		return nil, err
	}

	req := apis.Request{
		Owner:     ownerOf(owner),
		Field:     f,
		Directive: *f.Directive,
		Dict:      dict,
	}

	if uref.IsCollection(f.Type) && fv.IsValid() && !isNil(fv) {
		ev, ok, _ := uref.Indirect(fv)
		if ok {
			out := make([]any, ev.Len())
			for i := range out {
				req.Value = rawOf(ev.Index(i))
				if s, ok := tr.Translate(req); ok {
					out[i] = s
				}
			}
			return out, nil
		}
	}

	req.Value = rawOf(fv)
	if s, ok := tr.Translate(req); ok {
		return s, nil
	}
	return nil, nil
}

// rawOf returns the dereferenced interface value of v, or nil when absent.
func rawOf(v reflect.Value) any {
	rv, ok, err := uref.Indirect(v)
	if err != nil || !ok || !rv.CanInterface() {
		return nil
	}
	return rv.Interface()
}

// ownerOf returns a pointer to the owning struct when addressable.
func ownerOf(rv reflect.Value) any {
	if rv.CanAddr() && rv.Addr().CanInterface() {
		return rv.Addr().Interface()
	}
	if rv.CanInterface() {
		return rv.Interface()
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

