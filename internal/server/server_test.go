package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deasciifier/internal/correction"
	"deasciifier/internal/pattern"
	"deasciifier/internal/transform"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	table, err := pattern.Compile(map[string]string{
		"c": "aXa|-bXb|-aX|-Xa",
		"g": "aXa|-bX|-Xb",
		"i": "Xk",
	})
	require.NoError(t, err)
	base := correction.NewStatic(map[string][]string{"ciktik": {"çıktık"}})
	srv := New(transform.NewProcessor(table), base, nil, NewMemoryStore(), nil)
	require.NoError(t, srv.Reload(context.Background()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	if resp.StatusCode != http.StatusNotFound {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestConvertEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     string
		wantText string
		wantEnd  float64
	}{
		{"deasciify whole", "/api/v1/deasciify", `{"text":"Agaca ciktik"}`, "Ağaça çıktık", 12},
		{"deasciify selection", "/api/v1/deasciify", `{"text":"Agaca ciktik","selection_start":0,"selection_end":4}`, "Ağaça ciktik", 4},
		{"deasciify oversized", "/api/v1/deasciify", `{"text":"Agaca ciktik","selection_start":0,"selection_end":100}`, "Ağaça çıktık", 12},
		{"asciify whole", "/api/v1/asciify", `{"text":"Ağaça çıktık"}`, "Agaca ciktik", 12},
		{"asciify selection", "/api/v1/asciify", `{"text":"Ağaça çıktık","selection_start":1,"selection_end":2}`, "Agaça çıktık", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := do(t, http.MethodPost, ts.URL+tt.path, tt.body)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.wantText, out["text"])
			assert.Equal(t, tt.wantEnd, out["range"].(map[string]any)["end"])
		})
	}
}

func TestConvertSelectionPastEnd(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/api/v1/asciify", "/api/v1/deasciify"} {
		t.Run(path, func(t *testing.T) {
			doc := "Ağaça çıktık"
			if path == "/api/v1/deasciify" {
				doc = "Agaca ciktik"
			}
			body := `{"text":"` + doc + `","selection_start":50,"selection_end":100}`
			status, out := do(t, http.MethodPost, ts.URL+path, body)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, doc, out["text"])
			assert.Equal(t, map[string]any{"start": 12.0, "end": 12.0}, out["range"])
			assert.Equal(t, []any{}, out["changed_positions"])
		})
	}
}

func TestConvertChangedPositions(t *testing.T) {
	_, ts := newTestServer(t)
	status, out := do(t, http.MethodPost, ts.URL+"/api/v1/deasciify", `{"text":"Agaca ciktik"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{1.0, 3.0, 6.0, 7.0, 10.0}, out["changed_positions"])
}

func TestConvertErrors(t *testing.T) {
	_, ts := newTestServer(t)

	status, _ := do(t, http.MethodPost, ts.URL+"/api/v1/deasciify", `{"text":"abc","selection_start":2,"selection_end":1}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/deasciify", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodGet, ts.URL+"/api/v1/deasciify", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTyped(t *testing.T) {
	_, ts := newTestServer(t)

	status, out := do(t, http.MethodPost, ts.URL+"/api/v1/typed", `{"text":"Agaca ciktik ","selection_start":13,"selection_end":13}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Agaca çıktık ", out["text"])
	assert.Equal(t, []any{6.0, 7.0, 10.0}, out["changed_positions"])
	assert.Equal(t, map[string]any{"start": 6.0, "end": 12.0}, out["range"])

	status, out = do(t, http.MethodPost, ts.URL+"/api/v1/typed", `{"text":"Agacaciktik","selection_start":5,"selection_end":5}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Agacaciktik", out["text"], "no separator before the cursor")
	assert.Equal(t, map[string]any{"start": 5.0, "end": 5.0}, out["range"])
	assert.Equal(t, []any{}, out["changed_positions"])

	status, out = do(t, http.MethodPost, ts.URL+"/api/v1/typed", `{"text":"Agaca","selection_start":0,"selection_end":0}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"start": 0.0, "end": 0.0}, out["range"])
}

func TestRelay(t *testing.T) {
	_, ts := newTestServer(t)

	status, out := do(t, http.MethodPost, ts.URL+"/api/v1/relay", `{"message":"DELIVER_TEXT","text":"Agaca ciktik","selection_start":0,"selection_end":5}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "DELIVER_TEXT", out["message"])
	assert.Equal(t, "Ağaça ciktik", out["text"])
	assert.Equal(t, 5.0, out["selection_end"])

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/relay", `{"message":"REQUEST_TEXT"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/relay", `{"message":"PING"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSuggest(t *testing.T) {
	_, ts := newTestServer(t)

	status, out := do(t, http.MethodPost, ts.URL+"/api/v1/suggest", `{"text":"Agaca ciktik","cursor":8}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["visible"])
	assert.Equal(t, "ciktik", out["word"])
	assert.Equal(t, []any{"çıktık"}, out["suggestions"])
	assert.Equal(t, map[string]any{"start": 6.0, "end": 12.0}, out["range"])

	status, out = do(t, http.MethodPost, ts.URL+"/api/v1/suggest", `{"text":"Agaca ciktik","cursor":6}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, out["visible"])
	assert.Equal(t, []any{}, out["suggestions"])

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/suggest", `{"text":"Agaca","cursor":-1}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCustomCorrections(t *testing.T) {
	srv, ts := newTestServer(t)

	status, out := do(t, http.MethodGet, ts.URL+"/api/v1/corrections/cok", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, out["suggestions"])

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/custom-correction", `{"word":"cok","alternatives":["çok","çök"]}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []string{"çok", "çök"}, srv.Catalog().Lookup("cok"))

	status, out = do(t, http.MethodGet, ts.URL+"/api/v1/corrections/Cok", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"Çok", "Çök"}, out["suggestions"])

	status, _ = do(t, http.MethodDelete, ts.URL+"/api/v1/custom-correction/cok", "")
	require.Equal(t, http.StatusOK, status)
	assert.False(t, srv.Catalog().HasCorrections("cok"))
	assert.True(t, srv.Catalog().HasCorrections("ciktik"), "file entries survive")

	status, _ = do(t, http.MethodPost, ts.URL+"/api/v1/custom-correction", `{"word":"","alternatives":["x"]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, http.MethodDelete, ts.URL+"/api/v1/custom-correction/", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGeneratedCatalog(t *testing.T) {
	table := pattern.Default()
	srv := New(transform.NewProcessor(table), nil, correction.NewVariants(correction.VariantConfig{MaxPositions: 1}, nil), nil, nil)
	assert.Equal(t, []string{"çok"}, srv.Catalog().Lookup("cok"))
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	status, out := do(t, http.MethodGet, ts.URL+"/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out["status"])
}
