package handler

import (
	"net/http"
	"sync"
	"time"

	"city-route/utils"

	"github.com/gin-gonic/gin"
)

// SessionHeader lets anonymous map pages keep their own current route.
const SessionHeader = "X-Session-ID"

// Route is the route a session currently shows on its map.
type Route struct {
	Start      string        `json:"start"`
	End        string        `json:"end"`
	Path       []PathNode    `json:"path"`
	Distance   float64       `json:"distance"`
	Message    string        `json:"message"`
	Bounds     *utils.Bounds `json:"bounds,omitempty"`
	ComputedAt time.Time     `json:"computed_at"`
}

// RouteSessions holds at most one route per session. A new query replaces
// it and a failed query or a map reset clears it.
type RouteSessions struct {
	mu     sync.RWMutex
	routes map[string]Route
}

func NewRouteSessions() *RouteSessions {
	return &RouteSessions{routes: make(map[string]Route)}
}

func (s *RouteSessions) Get(key string) (Route, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.routes[key]
	return r, ok
}

func (s *RouteSessions) Set(key string, r Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[key] = r
}

// Clear drops the session's route and reports whether there was one.
func (s *RouteSessions) Clear(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.routes[key]
	delete(s.routes, key)
	return ok
}

func (s *RouteSessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.routes)
}

// SessionKey identifies the caller: the logged-in user, else the session
// header, else a shared anonymous slot.
func SessionKey(c *gin.Context) string {
	if name := c.GetString(ctxUsername); name != "" {
		return "user:" + name
	}
	if sid := c.GetHeader(SessionHeader); sid != "" {
		return "sid:" + sid
	}
	return "anonymous"
}

// CurrentRoute returns the caller's current route.
func (h *PathHandler) CurrentRoute(c *gin.Context) {
	route, ok := h.sessions.Get(SessionKey(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no route selected"})
		return
	}
	c.JSON(http.StatusOK, route)
}

// ClearRoute removes the caller's current route, e.g. when the map is reset.
func (h *PathHandler) ClearRoute(c *gin.Context) {
	cleared := h.sessions.Clear(SessionKey(c))
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}
