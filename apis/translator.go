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

package apis

import "reflect"

const (
	// AutoCode in Directive.Code means "use the field's own name as the code".
	AutoCode = "AUTO"
	// DefaultTranslator is the translator id used when a directive names none.
	DefaultTranslator = "single"
)

// Directive is the per-field mapping metadata declared in a struct tag.
type Directive struct {
	// Code is the dictionary-type code, AutoCode, or empty (same as AutoCode).
	Code string
	// Suffix is appended after translation.
	Suffix string
	// Translator identifies the translator strategy; empty means DefaultTranslator.
	Translator string
}

// CodeFor resolves the dictionary-type code for a field named fieldName.
func (d Directive) CodeFor(fieldName string) string {
	if d.Code == "" || d.Code == AutoCode {
		return fieldName
	}
	return d.Code
}

// TranslatorID returns the effective translator id.
func (d Directive) TranslatorID() string {
	if d.Translator == "" {
		return DefaultTranslator
	}
	return d.Translator
}

// Field describes one translatable struct field.
type Field struct {
	// Name is the Go field name; it is also the AUTO dictionary code.
	Name string
	// Key is the name used in snapshot results (see Config.FieldNaming).
	Key string
	// Index is the index path for reflect.Value.FieldByIndex.
	Index []int
	// Type is the declared field type.
	Type reflect.Type
	// Directive is nil when the field carries no mapping directive.
	Directive *Directive
}

// Request is the input of a single translation.
type Request struct {
	// Owner is the object that holds the field.
	Owner any
	// Field describes the field being translated.
	Field Field
	// Value is the raw field value (or one element of a collection field),
	// nil when absent. Pointers are already dereferenced.
	Value any
	// Directive is the field's mapping directive.
	Directive Directive
	// Dict is the dictionary to consult.
	Dict Reader
}

// Translator turns a raw field value into its translated string.
// One instance per id is shared process-wide, so implementations must be
// safe for concurrent use. ok == false means "no translation" (absent).
type Translator interface {
	Translate(req Request) (translated string, ok bool)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(req Request) (string, bool)

// Translate calls f(req).
func (f TranslatorFunc) Translate(req Request) (string, bool) {
	return f(req)
}

// Factory constructs a Translator. It runs until it first succeeds for an id.
// A factory may resolve other ids from the same Registry, but must not
// resolve its own id, directly or through another factory.
type Factory func() Translator

// Registry resolves translator ids to cached singleton instances.
type Registry interface {
	// Register associates id with a factory. Duplicate ids are rejected.
	Register(id string, f Factory) error
	// RegisterType associates id with the type of proto; instances are
	// default-constructed via reflection on first use.
	RegisterType(id string, proto any) error
	// Resolve returns the singleton for id, constructing it on first use.
	Resolve(id string) (Translator, error)
	// IDs returns the registered ids in sorted order.
	IDs() []string
	// Count returns the number of registered ids.
	Count() int
}
