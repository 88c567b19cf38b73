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

package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dirpx.dev/dictx"
	"dirpx.dev/dictx/apis"
	"dirpx.dev/dictx/internal/httpapi"
)

func newServer(t *testing.T) (*dictx.Engine, *echo.Echo) {
	t.Helper()
	eng := dictx.New()
	eng.Load(apis.Dictionary{
		"taskStatus": {"1": "未开始", "2": "进行中", "3": "已完成"},
		"dup":        {"a": "same", "b": "same"},
	})
	return eng, httpapi.NewServer(eng, zaptest.NewLogger(t))
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	_, e := newServer(t)
	rec := do(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, httpapi.Health{Status: "ok", Codes: 2}, decode[httpapi.Health](t, rec))
}

func TestAllAndBucket(t *testing.T) {
	_, e := newServer(t)

	rec := do(e, http.MethodGet, "/dict", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[apis.Dictionary](t, rec)
	assert.Equal(t, "进行中", all["taskStatus"]["2"])

	rec = do(e, http.MethodGet, "/dict/taskStatus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]string](t, rec), 3)

	rec = do(e, http.MethodGet, "/dict/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLookup(t *testing.T) {
	_, e := newServer(t)

	rec := do(e, http.MethodGet, "/dict/taskStatus/keys/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, httpapi.Entry{Code: "taskStatus", Key: "1", Value: "未开始"}, decode[httpapi.Entry](t, rec))

	rec = do(e, http.MethodGet, "/dict/taskStatus/keys/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReverseLookup(t *testing.T) {
	_, e := newServer(t)

	rec := do(e, http.MethodGet, "/dict/taskStatus/values/"+url.PathEscape("已完成"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", decode[httpapi.Entry](t, rec).Key)

	rec = do(e, http.MethodGet, "/dict/dup/values/same", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	c := decode[httpapi.Conflict](t, rec)
	assert.Equal(t, []string{"a", "b"}, c.Keys)

	rec = do(e, http.MethodGet, "/dict/taskStatus/values/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutIsVisibleToGet(t *testing.T) {
	eng, e := newServer(t)

	rec := do(e, http.MethodPut, "/dict", `{"taskStatus":{"4":"已取消"},"level":{"H":"高"}}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	v, ok := eng.Lookup("taskStatus", "4")
	assert.True(t, ok)
	assert.Equal(t, "已取消", v)

	rec = do(e, http.MethodGet, "/dict/level/keys/H", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "高", decode[httpapi.Entry](t, rec).Value)

	// Existing keys of a merged code survive.
	rec = do(e, http.MethodGet, "/dict/taskStatus/keys/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPutRejectsInvalidBody(t *testing.T) {
	_, e := newServer(t)

	rec := do(e, http.MethodPut, "/dict", `{"taskStatus":["x"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPut, "/dict", `{"taskStatus":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
