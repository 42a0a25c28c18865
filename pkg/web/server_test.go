package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"dass/cmd/dass/config"
	"dass/cmd/dass/options"
	"dass/pkg/acquisition"
	"dass/pkg/generic"
	"dass/pkg/journal"
	"dass/pkg/profile"
	"dass/pkg/recorder"
	"dass/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWebServer(t *testing.T) (*Server, *journal.Journal) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	j, err := journal.Open(filepath.Join(dir, "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	sessionMgr := acquisition.NewManager(acquisition.DefaultChannelCount, recorder.New(dir), j, make(chan struct{}))
	store, err := generic.NewStore(storage.StoreGroupToString[storage.StoreGroupProfile], storage.Profiles, profile.TypeObjectMap)
	require.NoError(t, err)
	profileMgr := profile.NewManager(store, sessionMgr, j)

	c := &config.Config{
		SessionMgr: sessionMgr,
		ProfileMgr: profileMgr,
		Journal:    j,
		LogDir:     dir,
	}
	server, err := NewServer(gin.New(), options.NewDefaultOptions(), c)
	require.NoError(t, err)
	return server, j
}

func get(server *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

func decodeEvents(t *testing.T, w *httptest.ResponseRecorder) []journal.Event {
	t.Helper()
	var body struct {
		Events []journal.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Events
}

func TestEventsEndpoint(t *testing.T) {
	server, j := newTestWebServer(t)

	j.Record(journal.KindConnect, "", "serial /dev/ttyUSB0")
	j.Record(journal.KindDisconnect, "", "/dev/ttyUSB0")

	// the journal writes through a queue, wait for both rows to land
	deadline := time.Now().Add(3 * time.Second)
	var events []journal.Event
	for time.Now().Before(deadline) {
		w := get(server, "/api/v1/events")
		require.Equal(t, http.StatusOK, w.Code)
		events = decodeEvents(t, w)
		if len(events) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Len(t, events, 2)
	assert.Equal(t, journal.KindDisconnect, events[0].Kind)
	assert.Equal(t, journal.KindConnect, events[1].Kind)

	w := get(server, "/api/v1/events?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	events = decodeEvents(t, w)
	require.Len(t, events, 1)
	assert.Equal(t, journal.KindDisconnect, events[0].Kind)

	w = get(server, "/api/v1/events?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSystemEndpoint(t *testing.T) {
	server, _ := newTestWebServer(t)

	w := get(server, "/api/v1/system")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		System struct {
			Host map[string]interface{} `json:"host"`
			Cpus []float64              `json:"cpus"`
			Mem  MemUsageInfo           `json:"mem"`
			Disk DiskUsageInfo          `json:"disk"`
		} `json:"system"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.System.Mem.Total)
	assert.NotEmpty(t, body.System.Disk.Path)
}

func TestInstalledRoutes(t *testing.T) {
	server, _ := newTestWebServer(t)

	assert.Equal(t, http.StatusOK, get(server, "/api/v1/ports").Code)
	assert.Equal(t, http.StatusOK, get(server, "/api/v1/profiles").Code)
	assert.Equal(t, http.StatusOK, get(server, "/api/v1/session").Code)
	assert.Equal(t, http.StatusNotFound, get(server, "/api/v1/nope").Code)
}
