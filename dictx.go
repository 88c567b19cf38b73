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

package dictx

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/dictx/apis"
	"dirpx.dev/dictx/builder"
	"dirpx.dev/dictx/config"
	"dirpx.dev/dictx/walker"
)

var (
	// ErrNilStore is raised when a builder returns a nil store.
	ErrNilStore = errors.New("dictx: builder returned nil store")
	// ErrNilRegistry is raised when a builder returns a nil registry.
	ErrNilRegistry = errors.New("dictx: builder returned nil registry")
	// ErrNilClassifier is raised when a builder returns a nil classifier.
	ErrNilClassifier = errors.New("dictx: builder returned nil classifier")
)

// state is an immutable snapshot of every engine layer.
type state struct {
	cfg apis.Config
	bld apis.Builder
	log *zap.Logger

	st  apis.Store
	reg apis.Registry
	cls apis.Classifier
	wlk *walker.Walker

	// pst and preg mark a store or registry supplied by the caller; the
	// builder never replaces those.
	pst  bool
	preg bool
}

// Engine is an explicitly constructed translation context: one dictionary
// store, one translator registry and the configuration driving traversal.
//
// Reads load the current state without locking. Writers serialize on
// buildMu, build a new state and swap it in.
type Engine struct {
	buildMu sync.Mutex
	st      atomic.Pointer[state]
}

// Option configures New.
type Option func(*state)

// WithConfig sets the engine configuration.
func WithConfig(cfg apis.Config) Option {
	return func(s *state) { s.cfg = config.Normalize(cfg) }
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *state) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBuilder sets the builder used for every non-pinned layer.
func WithBuilder(b apis.Builder) Option {
	return func(s *state) {
		if b != nil {
			s.bld = b
		}
	}
}

// WithStore pins the dictionary store.
func WithStore(st apis.Store) Option {
	return func(s *state) {
		if st != nil {
			s.st, s.pst = st, true
		}
	}
}

// WithRegistry pins the translator registry.
func WithRegistry(reg apis.Registry) Option {
	return func(s *state) {
		if reg != nil {
			s.reg, s.preg = reg, true
		}
	}
}

// New constructs an Engine. Without options it has the default
// configuration, an empty store and the built-in translators.
func New(opts ...Option) *Engine {
	s := &state{
		cfg: config.DefaultConfig(),
		bld: builder.New(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := &Engine{}
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	e.publish(s)
	return e
}

// publish builds the non-pinned layers of s and stores it. Callers hold buildMu.
func (e *Engine) publish(s *state) {
	if !s.pst {
		s.st = s.bld.BuildStore(s.cfg, s.st)
	}
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, s.reg)
	}
	s.cls = s.bld.BuildClassifier(s.cfg)

	// Ensure non-nil layers.
	switch {
	case s.st == nil:
		panic(ErrNilStore)
	case s.reg == nil:
		panic(ErrNilRegistry)
	case s.cls == nil:
		panic(ErrNilClassifier)
	}

	s.wlk = walker.New(s.cfg, s.st, s.reg, s.cls, s.log)
	e.st.Store(s)
}

// update copies the current state, applies mut and publishes the result.
func (e *Engine) update(mut func(s *state)) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	next := *e.st.Load()
	mut(&next)
	e.publish(&next)
}

// Load merges d into the dictionary. It is the only write entry point for
// dictionary data and may be called at any time from any goroutine.
func (e *Engine) Load(d apis.Dictionary) {
	s := e.st.Load()
	s.st.Load(d)
	s.log.Debug("dictx: dictionary loaded", zap.Int("codes", len(d)), zap.Int("total", s.st.Count()))
}

// Lookup returns the value for key under code.
func (e *Engine) Lookup(code, key string) (string, bool) {
	return e.st.Load().st.Lookup(code, key)
}

// LookupOrSelf returns the value for key under code, falling back to the
// key's own string form. A nil key is absent.
func (e *Engine) LookupOrSelf(code string, key any) (string, bool) {
	return e.st.Load().st.LookupOrSelf(code, key)
}

// ReverseLookup returns the only key mapping to value under code.
func (e *Engine) ReverseLookup(code, value string) (string, bool, error) {
	return e.st.Load().st.ReverseLookup(code, value)
}

// KeysFor returns a copy of the bucket for code.
func (e *Engine) KeysFor(code string) map[string]string {
	return e.st.Load().st.KeysFor(code)
}

// All returns a deep copy of the whole dictionary.
func (e *Engine) All() apis.Dictionary {
	return e.st.Load().st.All()
}

// Snapshot returns a translated copy of v (see walker.Walker.Snapshot).
func (e *Engine) Snapshot(v any) (any, error) {
	return e.st.Load().wlk.Snapshot(v)
}

// Fill translates v in place (see walker.Walker.Fill).
func (e *Engine) Fill(v any) error {
	return e.st.Load().wlk.Fill(v)
}

// RegisterBusinessPackages appends business-package prefixes. Call it once
// at startup, before loading dictionaries and serving traffic.
func (e *Engine) RegisterBusinessPackages(prefixes ...string) {
	e.update(func(s *state) {
		s.cfg.BusinessPackages = config.AppendPackages(s.cfg.BusinessPackages, prefixes...)
	})
}

// RegisterTranslator registers a translator factory under id.
func (e *Engine) RegisterTranslator(id string, f apis.Factory) error {
	return e.st.Load().reg.Register(id, f)
}

// RegisterTranslatorType registers the type of proto under id.
func (e *Engine) RegisterTranslatorType(id string, proto any) error {
	return e.st.Load().reg.RegisterType(id, proto)
}

// Config returns the engine configuration.
func (e *Engine) Config() apis.Config {
	return e.st.Load().cfg
}

// SetConfig replaces the configuration and rebuilds the classifier.
// The store and registry are kept.
func (e *Engine) SetConfig(cfg apis.Config) {
	cfg = config.Normalize(cfg)
	e.update(func(s *state) { s.cfg = cfg })
}

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger {
	return e.st.Load().log
}

// SetLogger replaces the logger; nil is ignored.
func (e *Engine) SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	e.update(func(s *state) { s.log = l })
}

// Builder returns the engine builder.
func (e *Engine) Builder() apis.Builder {
	return e.st.Load().bld
}

// SetBuilder replaces the builder and rebuilds the non-pinned layers;
// nil is ignored.
func (e *Engine) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	e.update(func(s *state) { s.bld = b })
}

// Store returns the dictionary store.
func (e *Engine) Store() apis.Store {
	return e.st.Load().st
}

// Registry returns the translator registry.
func (e *Engine) Registry() apis.Registry {
	return e.st.Load().reg
}

// SetAll replaces several components at once. Nil arguments leave the
// corresponding component unchanged; a non-nil store or registry is pinned.
func (e *Engine) SetAll(cfg *apis.Config, st apis.Store, reg apis.Registry, bld apis.Builder) {
	e.update(func(s *state) {
		if cfg != nil {
			s.cfg = config.Normalize(*cfg)
		}
		if bld != nil {
			s.bld = bld
		}
		if st != nil {
			s.st, s.pst = st, true
		}
		if reg != nil {
			s.reg, s.preg = reg, true
		}
	})
}
