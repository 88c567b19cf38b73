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

// Package refresh keeps a dictionary current by polling an apis.Source and
// loading only payloads whose fingerprint changed.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"dirpx.dev/dictx/apis"
)

// DefaultInterval is the delay between polls.
const DefaultInterval = time.Minute

var (
	// ErrNilSource is returned by New for a nil source.
	ErrNilSource = errors.New("dictx(refresh): nil source")
	// ErrNilLoader is returned by New for a nil loader.
	ErrNilLoader = errors.New("dictx(refresh): nil loader")
)

// Refresher polls src and feeds changed payloads into dst.
type Refresher struct {
	src      apis.Source
	dst      apis.Loader
	interval time.Duration
	log      *zap.Logger

	group singleflight.Group

	mu sync.RWMutex
	fp string
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithInterval sets the delay between polls. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Refresher) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a Refresher.
func New(src apis.Source, dst apis.Loader, opts ...Option) (*Refresher, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if dst == nil {
		return nil, ErrNilLoader
	}
	r := &Refresher{
		src:      src,
		dst:      dst,
		interval: DefaultInterval,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Fingerprint returns the fingerprint of the last loaded payload.
func (r *Refresher) Fingerprint() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fp
}

// Refresh fetches once and loads the payload if its fingerprint differs
// from the last loaded one. Concurrent callers share a single fetch.
// A payload without a fingerprint is always loaded.
func (r *Refresher) Refresh(ctx context.Context) (changed bool, err error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		return r.refresh(ctx)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (r *Refresher) refresh(ctx context.Context) (bool, error) {
	p, err := r.src.Fetch(ctx)
	if err != nil {
		r.log.Warn("dictionary fetch failed", zap.Error(err))
		return false, fmt.Errorf("dictx(refresh): fetch: %w", err)
	}

	prev := r.Fingerprint()
	if p.Fingerprint != "" && p.Fingerprint == prev {
		r.log.Debug("dictionary unchanged", zap.String("fingerprint", prev))
		return false, nil
	}

	r.dst.Load(p.Dictionary)

	r.mu.Lock()
	r.fp = p.Fingerprint
	r.mu.Unlock()

	r.log.Info("dictionary loaded",
		zap.Int("codes", len(p.Dictionary)),
		zap.String("fingerprint", p.Fingerprint),
		zap.String("previous", prev),
	)
	return true, nil
}

// Run refreshes immediately and then once per interval, measured from the
// end of the previous refresh, until ctx is done. Failed refreshes are
// logged and retried on the next tick. Run returns ctx.Err().
func (r *Refresher) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		// Errors are already logged by refresh.
		_, _ = r.Refresh(ctx)
		timer.Reset(r.interval)
	}
}
