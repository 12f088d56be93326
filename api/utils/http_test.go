// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tally/tally"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("boom"), "body"), http.StatusBadRequest, "body: boom\n"},
		{"forbidden", Forbidden(errors.New("nope")), http.StatusForbidden, "nope\n"},
		{"not found", NotFound("voter"), http.StatusNotFound, "voter not found\n"},
		{"wrapped", errors.WithMessage(NotFound("voter"), "outer"), http.StatusNotFound, "voter not found\n"},
		{"internal", errors.New("db closed"), http.StatusInternalServerError, "db closed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })(rec, httptest.NewRequest("GET", "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestNameVar(t *testing.T) {
	router := mux.NewRouter()
	var got tally.Name
	router.Path("/{name}").HandlerFunc(WrapHandlerFunc(func(w http.ResponseWriter, req *http.Request) error {
		var err error
		got, err = NameVar(req, "name")
		return err
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/alice", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tally.MustParseName("alice"), got)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/Alice", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
