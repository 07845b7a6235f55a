// file: internal/server/conditions.go
// version: 1.0.0
// guid: 0e6b3d52-a9f1-4c78-8e24-d5b71f9c3a06

package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/cfr-navigator/internal/anchor"
	"github.com/jdfalk/cfr-navigator/internal/metrics"
	"github.com/jdfalk/cfr-navigator/internal/models"
	"github.com/jdfalk/cfr-navigator/internal/query"
	"github.com/jdfalk/cfr-navigator/internal/search"
	"github.com/jdfalk/cfr-navigator/internal/server/middleware"
)

func searchCacheKey(generation uint64, req search.Request) string {
	return fmt.Sprintf("%d\x00%s\x00%s", generation, req.Query, req.System)
}

func (s *Server) searchConditions(c *gin.Context) {
	var req search.Request
	if HandleBindError(c, c.ShouldBindQuery(&req)) {
		return
	}

	snap := s.catalog.Snapshot()
	key := searchCacheKey(snap.Generation, req)
	resp, hit := s.searches.GetOrLoad(key, func() search.Response {
		return search.Run(snap, req)
	})
	if hit {
		metrics.IncSearchCacheHit()
		LogServiceCacheHit("search", key)
	} else {
		metrics.IncSearchCacheMiss()
		LogServiceCacheMiss("search", key)
	}
	c.JSON(http.StatusOK, resp)
}

// condition looks up :id in the current snapshot and answers 404 when absent.
func (s *Server) condition(c *gin.Context) (*models.Condition, bool) {
	id := c.Param("id")
	cond, ok := s.catalog.Snapshot().Get(id)
	if !ok {
		RespondWithNotFound(c, "condition", id)
		return nil, false
	}
	return cond, true
}

func (s *Server) getCondition(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewConditionDetail(cond))
}

func (s *Server) jumpCondition(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}

	raw := c.Query("q")
	intent := query.Parse(raw)
	hint := intent.JumpHint(raw)
	available := anchor.ForCondition(cond)
	res := anchor.Resolve(hint, available)
	metrics.IncJump(res.Kind())

	rows := anchor.FocusRows(hint, available)
	if rows == nil {
		rows = []string{}
	}
	c.JSON(http.StatusOK, JumpResponse{
		ID:        cond.ID,
		Query:     raw,
		Intent:    intent,
		Hint:      hint,
		Anchor:    res.Anchor,
		Kind:      res.Kind(),
		Focus:     res.Focus,
		Panel:     anchor.Panel(hint),
		FocusRows: rows,
	})
}

func (s *Server) parseQuery(c *gin.Context) {
	raw := c.Query("q")
	intent, rule := query.ParseRule(raw)
	c.JSON(http.StatusOK, gin.H{
		"query":     raw,
		"intent":    intent,
		"rule":      rule,
		"jump_hint": intent.JumpHint(raw),
	})
}

func (s *Server) listSystems(c *gin.Context) {
	snap := s.catalog.Snapshot()
	counts := make(map[string]int, len(snap.Systems))
	for _, cond := range snap.Conditions {
		counts[strings.TrimSpace(cond.BodySystem)]++
	}
	options := make([]SystemOption, 0, len(snap.Systems))
	for _, name := range snap.Systems {
		options = append(options, SystemOption{
			Name:  name,
			Class: models.SystemClass(name),
			Count: counts[name],
		})
	}
	c.JSON(http.StatusOK, NewListResponse(options, len(options)))
}

func (s *Server) legacyListConditions(c *gin.Context) {
	snap := s.catalog.Snapshot()
	if snap.Generation == 0 {
		RespondWithServiceUnavailable(c, "catalog not loaded")
		return
	}
	conditions := snap.Conditions
	if conditions == nil {
		conditions = []*models.Condition{}
	}
	c.JSON(http.StatusOK, conditions)
}

func (s *Server) legacyGetCondition(c *gin.Context) {
	cond, ok := s.catalog.Snapshot().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, cond)
}

func (s *Server) listProgress(c *gin.Context) {
	ol := NewOperationLogger("listProgress", c.Request.Method, c.FullPath(), middleware.GetRequestID(c))
	tracked, err := s.progress.Tracked()
	if err != nil {
		ol.LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to list progress")
		return
	}
	c.JSON(http.StatusOK, NewListResponse(tracked, len(tracked)))
}
