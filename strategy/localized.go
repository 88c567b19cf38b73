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

package strategy

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"dirpx.dev/dictx/apis"
	uref "dirpx.dev/dictx/utils/reflect"
)

// LocalizedID is the id LocalizedFactory is conventionally registered under.
const LocalizedID = "i18n"

// NewBundle builds a go-i18n bundle with TOML support and loads the given
// message files from fsys. Message ids are "<code>.<key>".
func NewBundle(defaultLang language.Tag, fsys fs.FS, files ...string) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(fsys, file); err != nil {
			return nil, fmt.Errorf("dictx(strategy): load %s: %w", file, err)
		}
	}
	return bundle, nil
}

// Localized translates values from a message bundle for a fixed language
// preference. Values without a message fall back to Single.
type Localized struct {
	bundle *i18n.Bundle
	langs  []string
}

// Ensure Localized implements apis.Translator.
var _ apis.Translator = (*Localized)(nil)

// NewLocalized returns a translator over bundle preferring langs in order.
func NewLocalized(bundle *i18n.Bundle, langs ...string) *Localized {
	return &Localized{bundle: bundle, langs: langs}
}

// LocalizedFactory returns a factory for registering Localized.
func LocalizedFactory(bundle *i18n.Bundle, langs ...string) apis.Factory {
	return func() apis.Translator { return NewLocalized(bundle, langs...) }
}

// Translate implements apis.Translator.
func (l *Localized) Translate(req apis.Request) (string, bool) {
	raw, ok := uref.Stringify(req.Value)
	if !ok || strings.TrimSpace(raw) == "" || l.bundle == nil {
		return Single{}.Translate(req)
	}

	code := req.Directive.CodeFor(req.Field.Name)
	if strings.Contains(raw, Delimiter) {
		return joinParts(raw, req.Directive.Suffix, func(part string) string {
			if msg, ok := l.localize(code, part); ok {
				return msg
			}
			if req.Dict == nil {
				return part
			}
			return orSelf(req.Dict, code)(part)
		}), true
	}

	if msg, ok := l.localize(code, raw); ok {
		return msg + req.Directive.Suffix, true
	}
	return Single{}.Translate(req)
}

func (l *Localized) localize(code, key string) (string, bool) {
	loc := i18n.NewLocalizer(l.bundle, l.langs...)
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: code + "." + key})
	if err != nil {
		return "", false
	}
	return msg, true
}
