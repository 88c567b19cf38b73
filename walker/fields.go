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
	"strings"
	"sync"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

// fieldKey identifies a cached field description.
type fieldKey struct {
	t      reflect.Type
	tag    string
	naming apis.FieldNaming
}

// described is a cache entry; err is cached too since tags never change.
type described struct {
	fields []apis.Field
	err    error
}

// fieldCache is a process-wide memo of struct descriptions.
var fieldCache sync.Map // map[fieldKey]described

// describe returns the traversable fields of struct type t: exported,
// visible fields in declaration order with promoted fields flattened.
// Untagged embedded structs are omitted since their fields are promoted.
func describe(t reflect.Type, cfg apis.Config) ([]apis.Field, error) {
	key := fieldKey{t: t, tag: cfg.TagKey, naming: cfg.FieldNaming}
	if d, ok := fieldCache.Load(key); ok {
		return d.(described).fields, d.(described).err
	}

	fields, err := build(t, cfg)
	d, _ := fieldCache.LoadOrStore(key, described{fields: fields, err: err})
	return d.(described).fields, d.(described).err
}

func build(t reflect.Type, cfg apis.Config) ([]apis.Field, error) {
	var out []apis.Field
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}

		tag, tagged := sf.Tag.Lookup(cfg.TagKey)
		if sf.Anonymous && !tagged {
			if k := uref.IndirectType(sf.Type).Kind(); k == reflect.Struct {
				continue
			}
		}

		var dir *apis.Directive
		if tagged {
			d, err := parseDirective(tag)
			if err != nil {
				return nil, &FieldError{Type: t, Field: sf.Name, Err: err}
			}
			dir = d
		}

		out = append(out, apis.Field{
			Name:      sf.Name,
			Key:       keyFor(sf, cfg.FieldNaming),
			Index:     sf.Index,
			Type:      sf.Type,
			Directive: dir,
		})
	}
	return out, nil
}

// parseDirective parses a mapping tag:
//
//	""                                  defaults
//	"taskStatus"                        code
//	"code=taskStatus,suffix=x,translator=multi"
//	"-"                                 no directive
func parseDirective(tag string) (*apis.Directive, error) {
	tag = strings.TrimSpace(tag)
	if tag == "-" {
		return nil, nil
	}

	d := &apis.Directive{}
	if tag == "" {
		return d, nil
	}

	for i, part := range strings.Split(tag, ",") {
		name, value, hasValue := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !hasValue {
			if i != 0 {
				return nil, fmt.Errorf("%w: unexpected element %q in %q", ErrInvalidDirective, part, tag)
			}
			d.Code = name
			continue
		}
		value = strings.TrimSpace(value)
		switch name {
		case "code":
			d.Code = value
		case "suffix":
			d.Suffix = value
		case "translator":
			d.Translator = value
		default:
			return nil, fmt.Errorf("%w: unknown option %q in %q", ErrInvalidDirective, name, tag)
		}
	}
	return d, nil
}

// keyFor returns the result key of sf under naming.
func keyFor(sf reflect.StructField, naming apis.FieldNaming) string {
	if naming != apis.NamingJSON {
		return sf.Name
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}
