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

// Package httpapi exposes an Engine's dictionary over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"dirpx.dev/dictx"
	"dirpx.dev/dictx/apis"
	"dirpx.dev/dictx/store"
)

// Handler serves the dictionary routes.
type Handler struct {
	eng *dictx.Engine
}

// NewHandler returns a Handler over eng.
func NewHandler(eng *dictx.Engine) *Handler {
	return &Handler{eng: eng}
}

// Entry is the body of a single-key response.
type Entry struct {
	Code  string `json:"code"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Conflict is the body of an ambiguous reverse lookup.
type Conflict struct {
	Code  string   `json:"code"`
	Value string   `json:"value"`
	Keys  []string `json:"keys"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status string `json:"status"`
	Codes  int    `json:"codes"`
}

// NewServer builds an echo instance with recovery, zap request logging and
// the goccy JSON serializer, and registers h's routes.
func NewServer(eng *dictx.Engine, log *zap.Logger) *echo.Echo {
	if log == nil {
		log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = Serializer{}
	e.Use(middleware.Recover())
	e.Use(RequestLogger(log))

	NewHandler(eng).RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts the handlers on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	d := e.Group("/dict")
	d.GET("", h.All)
	d.PUT("", h.Load)
	d.GET("/:code", h.Bucket)
	d.GET("/:code/keys/:key", h.Lookup)
	d.GET("/:code/values/:value", h.ReverseLookup)
}

// Health reports liveness and the number of loaded codes.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, Health{Status: "ok", Codes: h.eng.Store().Count()})
}

// All returns every dictionary.
func (h *Handler) All(c echo.Context) error {
	return c.JSON(http.StatusOK, h.eng.All())
}

// Load merges the request body into the dictionary.
func (h *Handler) Load(c echo.Context) error {
	var d apis.Dictionary
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dictionary payload").SetInternal(err)
	}
	h.eng.Load(d)
	return c.NoContent(http.StatusNoContent)
}

// Bucket returns the key/value pairs of one code.
func (h *Handler) Bucket(c echo.Context) error {
	code := param(c, "code")
	b := h.eng.KeysFor(code)
	if len(b) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "unknown code")
	}
	return c.JSON(http.StatusOK, b)
}

// Lookup resolves one key.
func (h *Handler) Lookup(c echo.Context) error {
	code, key := param(c, "code"), param(c, "key")
	v, ok := h.eng.Lookup(code, key)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown key")
	}
	return c.JSON(http.StatusOK, Entry{Code: code, Key: key, Value: v})
}

// ReverseLookup resolves a value back to its key.
func (h *Handler) ReverseLookup(c echo.Context) error {
	code, value := param(c, "code"), param(c, "value")
	k, ok, err := h.eng.ReverseLookup(code, value)
	var amb *store.AmbiguousError
	switch {
	case errors.As(err, &amb):
		return c.JSON(http.StatusConflict, Conflict{Code: amb.Code, Value: amb.Value, Keys: amb.Keys})
	case err != nil:
		return err
	case !ok:
		return echo.NewHTTPError(http.StatusNotFound, "unknown value")
	}
	return c.JSON(http.StatusOK, Entry{Code: code, Key: k, Value: value})
}

// param returns the unescaped path parameter. echo leaves parameters
// escaped when the request carried a raw path.
func param(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
