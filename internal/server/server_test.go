package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/eda/internal/chart"
	"github.com/peekknuf/eda/internal/frame"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tbl, err := frame.New(
		frame.Numbers("price", 10, 20, 20, 30),
		frame.Objects("make", "Audi", "BMW", frame.NA, 7),
		frame.Objects("gone", frame.NA, frame.NA, frame.NA, frame.NA),
	)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := httptest.NewServer(New(tbl, Options{
		Source:       "cars.csv",
		Bins:         5,
		MissingLimit: 10,
		Chart:        chart.Options{Width: 3, Height: 2},
		Logger:       logger,
	}).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, []byte, http.Header) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body, resp.Header
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got), string(body))
	return got
}

func TestShape(t *testing.T) {
	srv := newTestServer(t)
	status, body, _ := get(t, srv, "/shape")
	require.Equal(t, http.StatusOK, status)
	got := decode(t, body)
	assert.Equal(t, "cars.csv", got["source"])
	assert.Equal(t, 4.0, got["rows"])
	assert.Equal(t, 3.0, got["columns"])
}

func TestOverview(t *testing.T) {
	srv := newTestServer(t)
	status, body, _ := get(t, srv, "/columns/make/overview")
	require.Equal(t, http.StatusOK, status)
	got := decode(t, body)
	assert.Equal(t, 25.0, got["null_percent"])
	assert.Equal(t, 4.0, got["unique_count"])

	status, body, _ = get(t, srv, "/columns/nope/overview")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, decode(t, body)["error"], "nope")
}

func TestDistribution(t *testing.T) {
	srv := newTestServer(t)
	status, body, _ := get(t, srv, "/columns/price/distribution")
	require.Equal(t, http.StatusOK, status)
	got := decode(t, body)
	assert.Equal(t, 20.0, got["stats"].(map[string]any)["mean"])

	status, _, _ = get(t, srv, "/columns/make/distribution")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _, _ = get(t, srv, "/columns/price/distribution?bins=zero")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = get(t, srv, "/columns/price/distribution?bins=2000000000")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, decode(t, body)["error"], "bins")

	status, _, _ = get(t, srv, "/columns/price/distribution.png?bins=2000000000")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestDistributionPNG(t *testing.T) {
	srv := newTestServer(t)
	status, body, header := get(t, srv, "/columns/price/distribution.png")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "image/png", header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}

func TestMissing(t *testing.T) {
	srv := newTestServer(t)

	status, body, _ := get(t, srv, "/missing")
	require.Equal(t, http.StatusOK, status)
	cols := decode(t, body)["columns"].([]any)
	assert.Len(t, cols, 2)

	status, body, _ = get(t, srv, "/missing?limit=100.01")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode(t, body)["empty"])

	status, _, _ = get(t, srv, "/missing?limit=-1")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _, _ = get(t, srv, "/missing?limit=lots")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = get(t, srv, "/columns/gone/missing")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 100.0, decode(t, body)["percent"])
}

func TestOverviewWithInfinity(t *testing.T) {
	tbl, err := frame.New(frame.Numbers("price", 10, math.Inf(1), 20))
	require.NoError(t, err)
	srv := httptest.NewServer(New(tbl, Options{Logger: logrus.New()}).Routes())
	defer srv.Close()

	status, body, _ := get(t, srv, "/columns/price/overview")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"value":"+Inf"`)
}

func TestMixed(t *testing.T) {
	srv := newTestServer(t)
	status, body, _ := get(t, srv, "/mixed")
	require.Equal(t, http.StatusOK, status)
	got := decode(t, body)
	assert.Equal(t, []any{"make"}, got["columns"])
	assert.Equal(t, false, got["ok"])
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/shape", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
