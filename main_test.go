package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BERTool/internal/calc/ber"
	"BERTool/internal/config"
	"BERTool/internal/logger"
	"BERTool/internal/repo"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			AllowedOrigin: "*",
			RateLimit:     config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		},
		Auth:  config.AuthConfig{TokenKey: "test", TokenTTL: time.Hour},
		Batch: config.BatchConfig{Concurrency: 2},
	}
	srv := httptest.NewServer(NewHandler(Deps{
		Config: cfg,
		Log:    logger.Discard(),
		Engine: ber.New(ber.Options{}),
		Repo:   repo.NewMemory(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes_Tools(t *testing.T) {
	srv := testServer(t)
	building := `{"building":{"length_m":12,"width_m":10}}`
	for _, path := range []string{
		"/api/tools/ber/calc",
		"/api/tools/hwb/calc",
		"/api/tools/recommend",
		"/api/tools/report/pdf",
	} {
		resp := postJSON(t, srv.URL+path, building, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	resp := postJSON(t, srv.URL+"/api/tools/geometry/calc", `{"length_m":12,"width_m":10,"heated_storeys":2,"storey_height_m":3,"building_type":"detached"}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/api/tools/batch/calc", `{"items":[`+building+`]}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/api/tools/autodesign", `{"building":{"length_m":12,"width_m":10},"target_band":"B1"}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_CORSPreflight(t *testing.T) {
	srv := testServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tools/ber/calc", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRoutes_AssessmentsRequireAuth(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/user/assessments")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/register", `{"login":"eve","password":"secret1","email":"eve@example.com"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))

	resp = postJSON(t, srv.URL+"/api/user/assessments", `{"name":"home","building":{"length_m":12,"width_m":10}}`, tok.Token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRoutes_LiveCalculator(t *testing.T) {
	srv := testServer(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/live", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "calculate",
		"payload": map[string]interface{}{"building": map[string]interface{}{"length_m": 12, "width_m": 10}},
	}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, "result", env.Type)
}
