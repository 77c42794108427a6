// Package testutil provides common test utilities for handler and integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest creates an HTTP request whose body is body marshaled to JSON.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err, "failed to marshal request body")
	return NewRequestWithBody(t, method, path, string(bodyBytes))
}

// NewRequestWithBody creates an HTTP request with a raw string body, for
// payloads that cannot be expressed as Go values (malformed JSON, wrong types).
func NewRequestWithBody(t *testing.T, method, path string, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse unmarshals the response body into a map.
func UnmarshalResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result), "failed to unmarshal response: %s", rr.Body.String())
	return result
}

// AssertStatus asserts the response status code matches expected.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code, body: %s", rr.Body.String())
}

// AssertJSONBody asserts the response body is JSON equal to expected.
func AssertJSONBody(t *testing.T, rr *httptest.ResponseRecorder, expected string) {
	t.Helper()
	assert.JSONEq(t, expected, rr.Body.String())
}

// AssertErrorCode asserts the response error envelope carries the expected code.
func AssertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()
	assert.Equal(t, expectedCode, UnmarshalResponse(t, rr)["error"], "unexpected error code")
}
