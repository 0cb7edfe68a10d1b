package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var v struct {
		Rating int `json:"rating"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":5}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, 5, v.Rating)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":5,"extra":1}`))
	assert.Error(t, DecodeJSON(r, &v))
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondNotFound(w, "appointment not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"appointment not found"}`, w.Body.String())
}
