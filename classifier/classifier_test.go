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

package classifier_test

import (
	"reflect"
	"testing"

	"dirpx.dev/dictx/apis"
	"dirpx.dev/dictx/classifier"
)

const pkg = "dirpx.dev/dictx/classifier_test"

type Order struct{ Status string }

type Tagged struct {
	apis.Marker
	Level string
}

type ptrBearer struct{}

func (*ptrBearer) DictBearer() {}

type plain struct{}

func TestIsBusinessType(t *testing.T) {
	c := classifier.Default([]string{pkg})

	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"struct", reflect.TypeOf(Order{}), true},
		{"pointer", reflect.TypeOf(&Order{}), true},
		{"slice of business", reflect.TypeOf([]Order{}), false},
		{"builtin", reflect.TypeOf(""), false},
		{"foreign", reflect.TypeOf(reflect.Value{}), false},
		{"bearer outside prefixes is not business", reflect.TypeOf(apis.Marker{}), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsBusinessType(tt.typ); got != tt.want {
				t.Fatalf("IsBusinessType(%v) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestIsBusinessType_PrefixMatching(t *testing.T) {
	tests := []struct {
		prefixes []string
		want     bool
	}{
		{nil, false},
		{[]string{"dirpx.dev/dictx"}, true},
		{[]string{"example.com/other", pkg + ".Ord"}, true},
		{[]string{"example.com/other"}, false},
	}

	for _, tt := range tests {
		c := classifier.Default(tt.prefixes)
		if got := c.IsBusinessType(reflect.TypeOf(Order{})); got != tt.want {
			t.Errorf("prefixes %v: IsBusinessType = %v, want %v", tt.prefixes, got, tt.want)
		}
	}
}

func TestIsTranslatable(t *testing.T) {
	c := classifier.Default([]string{"example.com/app"})

	var nilOrder *Order
	var nilSlice []string
	var iface any = &Tagged{}

	tests := []struct {
		name string
		val  reflect.Value
		want bool
	}{
		{"invalid", reflect.Value{}, false},
		{"marker embed", reflect.ValueOf(Tagged{}), true},
		{"marker embed pointer", reflect.ValueOf(&Tagged{}), true},
		{"pointer receiver bearer", reflect.ValueOf(ptrBearer{}), true},
		{"interface holding bearer", reflect.ValueOf(&iface).Elem(), true},
		{"slice", reflect.ValueOf([]string{"1"}), true},
		{"array", reflect.ValueOf([1]int{}), true},
		{"nil slice", reflect.ValueOf(nilSlice), false},
		{"bytes", reflect.ValueOf([]byte("1")), false},
		{"nil pointer", reflect.ValueOf(nilOrder), false},
		{"plain struct outside prefixes", reflect.ValueOf(plain{}), false},
		{"string", reflect.ValueOf("1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsTranslatable(tt.val); got != tt.want {
				t.Fatalf("IsTranslatable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTranslatable_BusinessPrefix(t *testing.T) {
	c := classifier.Default([]string{pkg})
	if !c.IsTranslatable(reflect.ValueOf(&Order{})) {
		t.Fatalf("business object must be translatable")
	}
	if !c.IsTranslatable(reflect.ValueOf(plain{})) {
		t.Fatalf("unexported business type must be translatable")
	}
}

func TestNew_IgnoresNilRules(t *testing.T) {
	c := classifier.New(nil, classifier.CollectionRule(), nil)
	if !c.IsTranslatable(reflect.ValueOf([]int{1})) {
		t.Fatalf("collection rule lost")
	}
	if c.IsBusinessType(reflect.TypeOf(Order{})) {
		t.Fatalf("no prefix rule, nothing is business")
	}
}

func TestPrefixRule_CopiesPrefixes(t *testing.T) {
	prefixes := []string{pkg}
	c := classifier.New(classifier.PrefixRule(prefixes))
	prefixes[0] = "example.com/changed"
	if !c.IsBusinessType(reflect.TypeOf(Order{})) {
		t.Fatalf("rule observed caller mutation of prefixes")
	}
}

// Compile-time check.
var _ apis.Classifier = classifier.Default(nil)
