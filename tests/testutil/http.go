package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preorder/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

// ServeJSON sends a request through a full engine, so that path parameters
// and middleware apply, and returns the recorder. A nil body sends none.
func ServeJSON(t *testing.T, engine http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// DecodeData unmarshals the data field of a success envelope into T.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Failed to parse JSON response")
	require.True(t, envelope.Success, "Expected success response, got %s", w.Body.String())

	var result T
	require.NoError(t, json.Unmarshal(envelope.Data, &result), "Failed to parse response data")
	return result
}

// DecodeMeta returns the pagination meta of a list response
func DecodeMeta(t *testing.T, w *httptest.ResponseRecorder) *dto.Meta {
	t.Helper()

	var envelope struct {
		Meta *dto.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Failed to parse JSON response")
	require.NotNil(t, envelope.Meta, "Expected pagination meta, got %s", w.Body.String())
	return envelope.Meta
}

// ErrorCode returns the error code of an error envelope.
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Failed to parse JSON response")
	return envelope.Error.Code
}
