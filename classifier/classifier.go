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

package classifier

import (
	"reflect"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

// New constructs an apis.Classifier that tries the given rules in order.
// Nil rules are ignored. The returned classifier is safe for concurrent use
// provided the rules themselves are.
func New(rules ...apis.Rule) apis.Classifier {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Rule, 0, len(rules))
	for _, r := range rules {
		if r != nil {
			out = append(out, r)
		}
	}
	return chain{rules: out}
}

// Default returns the standard chain: Bearer, then Collection, then
// business-package prefixes.
func Default(prefixes []string) apis.Classifier {
	return New(BearerRule(), CollectionRule(), PrefixRule(prefixes))
}

// chain is an immutable, order-preserving classifier over a set of rules.
type chain struct {
	rules []apis.Rule
}

// IsBusinessType consults the business rules only.
func (c chain) IsBusinessType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for _, r := range c.rules {
		if !r.Business() {
			continue
		}
		if ok, handled := r.TryClassify(t); handled {
			return ok
		}
	}
	return false
}

// IsTranslatable runs rules in order until one handles the value's
// dynamic type. nil values, nil pointers and nil interfaces are never
// translatable.
func (c chain) IsTranslatable(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		if v.IsNil() {
			return false
		}
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	t := v.Type()
	for _, r := range c.rules {
		if ok, handled := r.TryClassify(t); handled {
			return ok
		}
	}
	return false
}

// BearerRule accepts types (or pointers to them) implementing apis.Bearer.
func BearerRule() apis.Rule { return bearerRule{} }

type bearerRule struct{}

var bearerType = reflect.TypeOf((*apis.Bearer)(nil)).Elem()

func (bearerRule) TryClassify(t reflect.Type) (bool, bool) {
	if t.Implements(bearerType) {
		return true, true
	}
	base := uref.IndirectType(t)
	if base != nil && (base.Implements(bearerType) || reflect.PointerTo(base).Implements(bearerType)) {
		return true, true
	}
	return false, false
}

func (bearerRule) Business() bool { return false }

// CollectionRule accepts slices and arrays (byte sequences excluded).
func CollectionRule() apis.Rule { return collectionRule{} }

type collectionRule struct{}

func (collectionRule) TryClassify(t reflect.Type) (bool, bool) {
	if uref.IsCollection(t) {
		return true, true
	}
	return false, false
}

func (collectionRule) Business() bool { return false }
