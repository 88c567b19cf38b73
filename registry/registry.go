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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

var (
	// ErrEmptyID is returned when a blank translator id is registered.
	ErrEmptyID = errors.New("dictx(registry): empty translator id provided")
	// ErrNilFactory is returned when a nil factory is registered.
	ErrNilFactory = errors.New("dictx(registry): nil factory provided")
	// ErrNilType is returned when RegisterType receives a nil prototype.
	ErrNilType = errors.New("dictx(registry): nil prototype provided")
	// ErrConflictingRegistration indicates an attempt to re-register an id.
	ErrConflictingRegistration = errors.New("dictx(registry): conflicting translator registration")

	// ErrInstantiation is matched (errors.Is) by every *InstantiationError.
	ErrInstantiation = errors.New("dictx(registry): translator instantiation failed")
	// ErrUnknownTranslator means no factory is registered for the id.
	ErrUnknownTranslator = errors.New("dictx(registry): unknown translator")
	// ErrNilTranslator means the factory produced nil.
	ErrNilTranslator = errors.New("dictx(registry): factory returned nil")
	// ErrNotTranslator means the registered type does not implement apis.Translator.
	ErrNotTranslator = errors.New("dictx(registry): type does not implement Translator")
)

// InstantiationError reports a translator that could not be resolved.
// It is a configuration error and is never retried.
type InstantiationError struct {
	ID  string
	Err error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("dictx(registry): cannot instantiate translator %q: %v", e.ID, e.Err)
}

// Unwrap matches both ErrInstantiation and the underlying cause.
func (e *InstantiationError) Unwrap() []error {
	return []error{ErrInstantiation, e.Err}
}

// New constructs an empty Registry.
func New() apis.Registry {
	return &registry{}
}

// entry is one registration: either a factory or a prototype type.
type entry struct {
	factory apis.Factory
	typ     reflect.Type
}

// build constructs a translator, converting panics into errors.
func (e entry) build() (tr apis.Translator, err error) {
	defer func() {
		if r := recover(); r != nil {
			tr, err = nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	if e.factory != nil {
		tr = e.factory()
		if tr == nil {
			return nil, ErrNilTranslator
		}
		return tr, nil
	}

	// Try the pointer first so pointer-receiver implementations qualify.
	p := reflect.New(e.typ)
	if tr, ok := p.Interface().(apis.Translator); ok {
		return tr, nil
	}
	if tr, ok := p.Elem().Interface().(apis.Translator); ok {
		return tr, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotTranslator, e.typ)
}

// registry is backed by sync.Maps: registrations, built singletons and
// per-id construction locks.
type registry struct {
	// mu guards write-side consistency and the counter.
	mu sync.Mutex
	// entries maps id to entry.
	entries sync.Map // map[string]entry
	// instances maps id to its singleton.
	instances sync.Map // map[string]apis.Translator
	// building maps id to the lock serializing its first construction.
	building sync.Map // map[string]*sync.Mutex
	// count tracks the number of registered ids.
	count int
}

// Register associates id with a factory.
func (r *registry) Register(id string, f apis.Factory) error {
	if f == nil {
		return ErrNilFactory
	}
	return r.add(id, entry{factory: f})
}

// RegisterType associates id with the (pointer-stripped) type of proto.
// Re-registering the same type under the same id is a no-op.
func (r *registry) RegisterType(id string, proto any) error {
	t := uref.IndirectType(reflect.TypeOf(proto))
	if t == nil {
		return ErrNilType
	}
	return r.add(id, entry{typ: t})
}

func (r *registry) add(id string, e entry) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyID
	}

	// Fast read path: conflict check without locking.
	if old, ok := r.entries.Load(id); ok {
		return conflict(old.(entry), e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.entries.Load(id); ok {
		return conflict(old.(entry), e)
	}

	r.entries.Store(id, e)
	r.count++
	return nil
}

func conflict(old, e entry) error {
	if old.typ != nil && old.typ == e.typ {
		return nil
	}
	return ErrConflictingRegistration
}

// Resolve returns the singleton for id, building it on first use.
// An empty id resolves apis.DefaultTranslator.
func (r *registry) Resolve(id string) (apis.Translator, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = apis.DefaultTranslator
	}

	if tr, ok := r.instances.Load(id); ok {
		return tr.(apis.Translator), nil
	}

	e, ok := r.entries.Load(id)
	if !ok {
		return nil, &InstantiationError{ID: id, Err: ErrUnknownTranslator}
	}

	// Construction holds only this id's lock, so a factory may resolve
	// other ids from the same registry.
	l, _ := r.building.LoadOrStore(id, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	if tr, ok := r.instances.Load(id); ok {
		return tr.(apis.Translator), nil
	}
	tr, err := e.(entry).build()
	if err != nil {
		return nil, &InstantiationError{ID: id, Err: err}
	}

	r.instances.Store(id, tr)
	return tr, nil
}

// IDs returns the registered ids, sorted.
func (r *registry) IDs() []string {
	ids := make([]string, 0, r.Count())
	r.entries.Range(func(key, _ any) bool {
		ids = append(ids, key.(string))
		return true
	})
	slices.Sort(ids)
	return ids
}

// Count returns the number of registered ids.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
