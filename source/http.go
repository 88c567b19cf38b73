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
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"dirpx.dev/dictx/apis"
)

// MaxBodySize caps the response body an HTTP source will read.
const MaxBodySize = 32 << 20

// ErrUnexpectedStatus is returned for non-2xx responses.
var ErrUnexpectedStatus = errors.New("dictx(source): unexpected status")

// HTTP fetches a JSON dictionary with GET. Calls go through a circuit
// breaker so a failing endpoint is not hammered by the refresher.
type HTTP struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

var _ apis.Source = (*HTTP)(nil)

// HTTPOption configures an HTTP source.
type HTTPOption func(*httpOptions)

type httpOptions struct {
	client   *http.Client
	settings gobreaker.Settings
}

// WithClient sets the http.Client used for requests.
func WithClient(c *http.Client) HTTPOption {
	return func(o *httpOptions) {
		if c != nil {
			o.client = c
		}
	}
}

// WithBreaker replaces the circuit breaker settings.
func WithBreaker(s gobreaker.Settings) HTTPOption {
	return func(o *httpOptions) {
		o.settings = s
	}
}

// NewHTTP returns an HTTP source for url. The default breaker opens after
// five consecutive failures and probes again after thirty seconds.
func NewHTTP(url string, opts ...HTTPOption) *HTTP {
	o := httpOptions{
		client: &http.Client{Timeout: 10 * time.Second},
		settings: gobreaker.Settings{
			Name:    "dictx-source " + url,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &HTTP{
		url:    url,
		client: o.client,
		cb:     gobreaker.NewCircuitBreaker(o.settings),
	}
}

// URL returns the endpoint.
func (h *HTTP) URL() string { return h.url }

// State reports the breaker state.
func (h *HTTP) State() gobreaker.State { return h.cb.State() }

// Fetch performs one GET. While the breaker is open it fails fast with
// gobreaker.ErrOpenState.
func (h *HTTP) Fetch(ctx context.Context) (apis.Payload, error) {
	out, err := h.cb.Execute(func() (interface{}, error) {
		return h.get(ctx)
	})
	if err != nil {
		return apis.Payload{}, fmt.Errorf("dictx(source): GET %s: %w", h.url, err)
	}
	raw := out.([]byte)
	d, err := Decode(FormatJSON, raw)
	if err != nil {
		return apis.Payload{}, err
	}
	return apis.Payload{Dictionary: d, Fingerprint: Fingerprint(raw)}, nil
}

func (h *HTTP) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
}
