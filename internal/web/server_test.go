package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"paneld/internal/config"
	"paneld/internal/sensors"
	"paneld/internal/store"
	"paneld/internal/web"
)

type memPersister struct {
	saved config.Settings
	ok    bool
}

func (m *memPersister) Read() (config.Settings, error) {
	if !m.ok {
		return config.Defaults(), nil
	}

	return m.saved, nil
}

func (m *memPersister) Write(s config.Settings) error {
	m.saved = s
	m.ok = true

	return nil
}

func newTestServer(t *testing.T) (*web.Server, *config.Store) {
	t.Helper()

	db, err := store.Open(t.Context(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	readings := store.NewReadings(db)
	require.NoError(t, readings.Insert(context.Background(), sensors.Sample{
		At:    time.Now(),
		TempC: 33.5,
	}))

	settings := config.NewStore(&memPersister{})

	server := web.New("127.0.0.1:0", web.Deps{
		Version:  "test",
		Settings: settings,
		Readings: readings,
		Status: func() web.Status {
			return web.Status{Version: "test", Screen: "Dashboard"}
		},
	})

	return server, settings
}

func TestStatusEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status web.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "Dashboard", status.Screen)
}

func TestSettingsRoundTrip(t *testing.T) {
	server, settings := newTestServer(t)

	body, err := json.Marshal(map[string]any{"brightness": 150, "auto_theme": false})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	// Clamped on the way in, and fields not in the body keep their values.
	require.Equal(t, 100, settings.Settings().Brightness)
	require.False(t, settings.Settings().AutoTheme)
	require.Equal(t, config.Defaults().ScreenTimeout, settings.Settings().ScreenTimeout)
}

func TestSettingsPostRejectsGarbage(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings",
		bytes.NewReader([]byte("{not json"))))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadingsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/readings?limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var samples []sensors.Sample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &samples))
	require.Len(t, samples, 1)
	require.InDelta(t, 33.5, samples[0].TempC, 0.001)
}

func TestReadingsRejectsBadLimit(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/readings?limit=zero", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRestartWithoutHook(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/restart", nil))

	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestIndexServed(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "paneld")
}
