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

package config

import (
	"slices"
	"strings"

	"dirpx.dev/dictx/apis"
)

const (
	// DefaultTagKey represents the default for TagKey.
	DefaultTagKey = "dict"
	// DefaultFieldNaming represents the default for FieldNaming.
	DefaultFieldNaming = apis.NamingGo
	// DefaultMaxDepth represents the default for MaxDepth.
	// Real business graphs are far shallower; deeper nesting is treated as a failure.
	DefaultMaxDepth = 64
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Normalize(cfg)
}

// Normalize replaces an invalid MaxDepth or TagKey with its default.
func Normalize(cfg apis.Config) apis.Config {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if strings.TrimSpace(cfg.TagKey) == "" {
		cfg.TagKey = DefaultTagKey
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		TagKey:      DefaultTagKey,
		FieldNaming: DefaultFieldNaming,
		MaxDepth:    DefaultMaxDepth,
	}
}

// WithBusinessPackages appends business-package prefixes.
// Blank and duplicate prefixes are ignored; the list is append-only.
func WithBusinessPackages(prefixes ...string) Option {
	return func(c *apis.Config) {
		c.BusinessPackages = AppendPackages(c.BusinessPackages, prefixes...)
	}
}

// AppendPackages returns a new slice holding prev followed by the trimmed,
// non-blank prefixes not already present. prev is never modified.
func AppendPackages(prev []string, prefixes ...string) []string {
	out := slices.Clone(prev)
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithTagKey sets the TagKey option.
func WithTagKey(key string) Option {
	return func(c *apis.Config) {
		c.TagKey = key
	}
}

// WithFieldNaming sets the FieldNaming option.
func WithFieldNaming(n apis.FieldNaming) Option {
	return func(c *apis.Config) {
		c.FieldNaming = n
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}
