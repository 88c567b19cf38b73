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
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"dirpx.dev/dictx/apis"
)

// ErrUnsupportedFormat is returned for payload formats with no decoder.
var ErrUnsupportedFormat = errors.New("dictx(source): unsupported format")

// Format names a serialization of apis.Dictionary.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, toml, yaml and yml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode parses data as a dictionary in format f.
func Decode(f Format, data []byte) (apis.Dictionary, error) {
	d := apis.Dictionary{}
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &d)
	case FormatTOML:
		err = toml.Unmarshal(data, &d)
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("dictx(source): decode %s: %w", f, err)
	}
	return d, nil
}

// Encode renders d in format f. Map keys are emitted in sorted order.
func Encode(f Format, d apis.Dictionary) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatTOML:
		return toml.Marshal(d)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
