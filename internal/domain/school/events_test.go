package school

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hubRouter(h *Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/events", h.Handle)
	return r
}

func TestHubRejectsPlainRequest(t *testing.T) {
	h := NewHub(nil)
	w := httptest.NewRecorder()
	hubRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, h.Subscribers())
}

func TestHubDeliversEvents(t *testing.T) {
	h := NewHub(nil)
	ts := httptest.NewServer(hubRouter(h))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/events", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.Publish(Event{Type: EventDeleted, ID: "abc"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var got Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, Event{Type: EventDeleted, ID: "abc"}, got)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
