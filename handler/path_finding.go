package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"city-route/algo"
	"city-route/model"
	"city-route/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// PathHandler serves the map page: node lists for the dropdowns and markers,
// and route queries.
type PathHandler struct {
	finder   *algo.Finder
	sessions *RouteSessions
	logger   *slog.Logger
}

func NewPathHandler(finder *algo.Finder, sessions *RouteSessions, logger *slog.Logger) *PathHandler {
	if sessions == nil {
		sessions = NewRouteSessions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PathHandler{finder: finder, sessions: sessions, logger: logger}
}

// PathRequest names the origin and destination, either by node ID or by a
// coordinate that is snapped to the nearest node.
type PathRequest struct {
	StartID  string   `json:"start_id"`            // e.g. "Location A"
	EndID    string   `json:"end_id"`              // e.g. "Location E"
	StartLat *float64 `json:"start_lat,omitempty"` // wins over StartID when set with StartLng
	StartLng *float64 `json:"start_lng,omitempty"`
	EndLat   *float64 `json:"end_lat,omitempty"` // wins over EndID when set with EndLng
	EndLng   *float64 `json:"end_lng,omitempty"`
}

// PathResponse is the answer to a route query.
type PathResponse struct {
	Found    bool          `json:"found"`
	Path     []PathNode    `json:"path,omitempty"`
	Distance float64       `json:"distance"`
	Bounds   *utils.Bounds `json:"bounds,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// PathNode is a node as the map page draws it.
type PathNode struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Type    string   `json:"type"`
	Aliases []string `json:"aliases,omitempty"`
}

func toPathNode(n *model.Node) PathNode {
	return PathNode{
		ID:      n.ID,
		Name:    n.DisplayName(),
		Lat:     n.Lat,
		Lng:     n.Lng,
		Type:    n.Type,
		Aliases: n.Aliases,
	}
}

// FindPath computes the shortest route and makes it the session's current route.
func (h *PathHandler) FindPath(c *gin.Context) {
	key := SessionKey(c)

	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sessions.Clear(key)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	g := h.finder.Graph()
	if g == nil {
		h.sessions.Clear(key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "map data not loaded"})
		return
	}

	startID := strings.TrimSpace(req.StartID)
	endID := strings.TrimSpace(req.EndID)
	if req.StartLat != nil && req.StartLng != nil {
		if n := g.FindNearestNode(*req.StartLat, *req.StartLng); n != nil {
			startID = n.ID
		}
	}
	if req.EndLat != nil && req.EndLng != nil {
		if n := g.FindNearestNode(*req.EndLat, *req.EndLng); n != nil {
			endID = n.ID
		}
	}
	if startID == "" || endID == "" {
		h.sessions.Clear(key)
		c.JSON(http.StatusBadRequest, gin.H{"error": "please select both origin and destination"})
		return
	}

	result, err := h.finder.Find(startID, endID)
	if err != nil {
		h.sessions.Clear(key)
		h.writeError(c, startID, endID, err)
		return
	}

	points, err := g.Coordinates(result.Path)
	if err != nil {
		h.sessions.Clear(key)
		h.logger.Error("route has nodes outside the map", "start", startID, "end", endID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "route search failed"})
		return
	}
	path := make([]PathNode, 0, len(result.Path))
	for _, id := range result.Path {
		n, _ := g.Node(id)
		path = append(path, toPathNode(n))
	}
	resp := PathResponse{
		Found:    true,
		Path:     path,
		Distance: result.Distance,
		Message:  algo.FormatRoute(startID, endID, result),
	}
	if b, ok := utils.BoundsOf(points); ok {
		resp.Bounds = &b
	}

	h.sessions.Set(key, Route{
		Start:      startID,
		End:        endID,
		Path:       resp.Path,
		Distance:   resp.Distance,
		Message:    resp.Message,
		Bounds:     resp.Bounds,
		ComputedAt: time.Now().UTC(),
	})
	h.logger.Debug("route found", "start", startID, "end", endID, "distance", result.Distance, "visited", result.Visited)

	c.JSON(http.StatusOK, resp)
}

func (h *PathHandler) writeError(c *gin.Context, start, end string, err error) {
	switch {
	case errors.Is(err, algo.ErrUnknownNode):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, algo.ErrNoPathFound):
		c.JSON(http.StatusOK, PathResponse{
			Found:   false,
			Message: fmt.Sprintf("no route found from %s to %s", start, end),
		})
	case errors.Is(err, algo.ErrComputationTimeout):
		h.logger.Warn("route search aborted", "start", start, "end", end, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "route search took too long"})
	default:
		h.logger.Error("route search failed", "start", start, "end", end, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "route search failed"})
	}
}

// GetNodes lists every node in definition order.
func (h *PathHandler) GetNodes(c *gin.Context) {
	g := h.finder.Graph()
	if g == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "map data not loaded"})
		return
	}

	list := g.NodeList()
	nodes := make([]PathNode, 0, len(list))
	for i := range list {
		nodes = append(nodes, toPathNode(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(nodes),
		"nodes": nodes,
	})
}

// GetNodeByID returns one node.
func (h *PathHandler) GetNodeByID(c *gin.Context) {
	g := h.finder.Graph()
	if g == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "map data not loaded"})
		return
	}

	n, ok := g.Node(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}
	c.JSON(http.StatusOK, toPathNode(n))
}

// SearchNodes matches q against node IDs, names and aliases, ignoring case.
func (h *PathHandler) SearchNodes(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
		return
	}

	g := h.finder.Graph()
	if g == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "map data not loaded"})
		return
	}

	q := strings.ToLower(query)
	results := make([]PathNode, 0)
	list := g.NodeList()
	for i := range list {
		if matches(&list[i], q) {
			results = append(results, toPathNode(&list[i]))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

func matches(n *model.Node, q string) bool {
	if strings.Contains(strings.ToLower(n.ID), q) || strings.Contains(strings.ToLower(n.Name), q) {
		return true
	}
	for _, a := range n.Aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}
