package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	a, b, _, _ := newTestApp(t)
	click(a, b, "blue")

	srv := httptest.NewServer(newMetricsHandler(a.manager))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `traydemo_menu_state{name="items"} 11`)
	assert.Contains(t, string(body), `traydemo_menu_state{name="selected_groups"} 2`)
	assert.Contains(t, string(body), `traydemo_menu_operations_total{name="updates"} 1`)

	resp, err = http.Post(srv.URL+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
