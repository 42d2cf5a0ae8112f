package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"fox","count":3}`)
	}))
	defer srv.Close()

	var p payload
	require.NoError(t, GetJSON(srv.URL, &p))
	assert.Equal(t, "fox", p.Name)
	assert.Equal(t, 3, p.Count)
}

func TestGetJSON_NotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	var p payload
	err := GetJSON(srv.URL, &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestPostFormJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fmt.Fprintf(w, `{"name":%q,"count":1}`, r.Form.Get("name"))
	}))
	defer srv.Close()

	var p payload
	form := url.Values{"name": []string{"dog"}}
	require.NoError(t, PostFormJSON(srv.URL, form, &p))
	assert.Equal(t, "dog", p.Name)
}
