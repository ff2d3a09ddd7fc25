package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIClient sends requests straight to an http.Handler
type APIClient struct {
	Handler http.Handler
	// Header is added to every request
	Header http.Header
}

// NewAPIClient creates a client for h
func NewAPIClient(h http.Handler) *APIClient {
	return &APIClient{Handler: h, Header: http.Header{}}
}

// As returns a copy of the client that identifies itself as userID
func (c *APIClient) As(userID string) *APIClient {
	h := c.Header.Clone()
	h.Set("X-User-ID", userID)
	return &APIClient{Handler: c.Handler, Header: h}
}

// Response is a recorded response
type Response struct {
	*httptest.ResponseRecorder
}

// Do sends method path with body encoded as JSON when non-nil
func (c *APIClient) Do(t *testing.T, method, path string, body any) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return &Response{ResponseRecorder: w}
}

// Get is Do with GET and no body
func (c *APIClient) Get(t *testing.T, path string) *Response {
	t.Helper()
	return c.Do(t, http.MethodGet, path, nil)
}

// envelope mirrors the API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r *Response) envelope(t *testing.T) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &env), "decode response: %s", r.Body.String())
	return env
}

// Data asserts status and decodes the data field into v
func (r *Response) Data(t *testing.T, status int, v any) {
	t.Helper()
	require.Equal(t, status, r.Code, r.Body.String())
	env := r.envelope(t)
	require.True(t, env.Success, r.Body.String())
	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v))
	}
}

// AssertError asserts status and the error code
func (r *Response) AssertError(t *testing.T, status int, code string) {
	t.Helper()
	assert.Equal(t, status, r.Code, r.Body.String())
	env := r.envelope(t)
	assert.False(t, env.Success)
	if assert.NotNil(t, env.Error, r.Body.String()) {
		assert.Equal(t, code, env.Error.Code)
	}
}
