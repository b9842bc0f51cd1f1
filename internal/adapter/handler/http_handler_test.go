package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockpile/internal/adapter/storage"
	"github.com/rl1809/stockpile/internal/core/service"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inventory.txt")
	inventory := service.NewInventoryService(storage.NewFileAdapter(path), nil, nil)

	mux := http.NewServeMux()
	NewHTTPHandler(inventory, nil, 5).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, path
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeQty(t *testing.T, resp *http.Response) QuantityHTTPResponse {
	t.Helper()

	var out QuantityHTTPResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTP_AddAndGetQty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/items/add", `{"name":"apple","quantity":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, decodeQty(t, resp).Quantity)

	getResp, err := http.Get(srv.URL + "/api/items/qty?name=apple")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Equal(t, 10, decodeQty(t, getResp).Quantity)
}

func TestHTTP_GetQtyAbsentIsZero(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/items/qty?name=ghost")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decodeQty(t, resp).Quantity)
}

func TestHTTP_AddRejectsNonPositiveQuantity(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/items/add", `{"name":"apple","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/items/add", `{"name":"apple","quantity":-5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_RemoveAbsentIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/items/remove", `{"name":"ghost","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTP_RemoveTooManyIsConflict(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/items/add", `{"name":"apple","quantity":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/items/remove", `{"name":"apple","quantity":5}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/api/items/qty?name=apple")
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, 3, decodeQty(t, getResp).Quantity)
}

func TestHTTP_MutateRequiresPost(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/items/add")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHTTP_SnapshotSaveAndLoad(t *testing.T) {
	srv, path := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/items/add", `{"name":"apple","quantity":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/snapshot/save", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "apple:10\n", string(data))

	resp = postJSON(t, srv.URL+"/api/snapshot/load", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_SnapshotLoadMalformedFile(t *testing.T) {
	srv, path := newTestServer(t)

	require.NoError(t, os.WriteFile(path, []byte("banana:notanumber\n"), 0o644))

	resp := postJSON(t, srv.URL+"/api/snapshot/load", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ErrorHTTPResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "banana:notanumber")
}

func TestHTTP_LowStock(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/api/items/add", `{"name":"apple","quantity":10}`)
	postJSON(t, srv.URL+"/api/items/add", `{"name":"banana","quantity":2}`)

	resp, err := http.Get(srv.URL + "/api/items/low?threshold=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"banana"}, body["items"])
}

func TestHTTP_LogsServeInMemoryNewestFirst(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/api/items/add", `{"name":"apple","quantity":10}`)
	postJSON(t, srv.URL+"/api/items/remove", `{"name":"apple","quantity":3}`)

	resp, err := http.Get(srv.URL + "/api/logs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Entries []struct {
			Op       string `json:"op"`
			Item     string `json:"item"`
			Quantity int    `json:"quantity"`
		} `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "remove", body.Entries[0].Op)
	assert.Equal(t, "add", body.Entries[1].Op)
}

func TestHTTP_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
