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

package source

import (
	"context"
	"fmt"
	"os"

	"dirpx.dev/dictx/apis"
)

// File reads a dictionary from a local JSON, TOML or YAML file.
type File struct {
	path   string
	format Format
}

var _ apis.Source = (*File)(nil)

// NewFile returns a File source. The format is taken from the extension.
func NewFile(path string) (*File, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, format: f}, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Fetch reads and decodes the file on every call.
func (f *File) Fetch(ctx context.Context) (apis.Payload, error) {
	if err := ctx.Err(); err != nil {
		return apis.Payload{}, err
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return apis.Payload{}, fmt.Errorf("dictx(source): read %s: %w", f.path, err)
	}
	d, err := Decode(f.format, raw)
	if err != nil {
		return apis.Payload{}, err
	}
	return apis.Payload{Dictionary: d, Fingerprint: Fingerprint(raw)}, nil
}
