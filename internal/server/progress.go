// file: internal/server/progress.go
// version: 1.0.0
// guid: 9a2c7e41-63b8-4f0d-a5e9-1c4d8b6f2e73

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/cfr-navigator/internal/progress"
	"github.com/jdfalk/cfr-navigator/internal/server/middleware"
)

// NotesRequest is the body of a notes update.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// EvidenceRequest is the body of a checklist item update.
type EvidenceRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

func (s *Server) operation(c *gin.Context, handler string) *OperationLogger {
	ol := NewOperationLogger(handler, c.Request.Method, c.FullPath(), middleware.GetRequestID(c))
	ol.SetResourceID(c.Param("id"))
	ol.LogStart()
	return ol
}

func (s *Server) getNotes(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	notes, err := s.progress.Notes(cond.ID)
	if err != nil {
		s.operation(c, "getNotes").LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to load notes")
		return
	}
	c.JSON(http.StatusOK, NotesResponse{ID: cond.ID, Notes: notes})
}

func (s *Server) saveNotes(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	ol := s.operation(c, "saveNotes")

	var req NotesRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}
	ol.AddDetail("length", len(req.Notes))

	if err := s.progress.SaveNotes(cond.ID, req.Notes); err != nil {
		ol.LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to save notes")
		return
	}
	s.hub.SendProgressUpdated(cond.ID, "notes")
	ol.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, NotesResponse{ID: cond.ID, Notes: req.Notes})
}

func (s *Server) clearNotes(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	ol := s.operation(c, "clearNotes")
	if err := s.progress.ClearNotes(cond.ID); err != nil {
		ol.LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to clear notes")
		return
	}
	s.hub.SendProgressUpdated(cond.ID, "notes")
	ol.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, DeleteResponse{Deleted: true, ID: cond.ID})
}

func (s *Server) getEvidence(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	state, err := s.progress.Evidence(cond.ID)
	if err != nil {
		s.operation(c, "getEvidence").LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to load evidence")
		return
	}
	c.JSON(http.StatusOK, NewEvidenceResponse(cond, state))
}

func (s *Server) setEvidence(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	ol := s.operation(c, "setEvidence")

	idx, ok := ParseParamInt(c, "index")
	if !ok {
		RespondWithValidationError(c, "index", "must be a non-negative integer")
		return
	}
	var req EvidenceRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}
	ol.AddDetail("index", idx)
	ol.AddDetail("checked", *req.Checked)

	state, err := s.progress.SetEvidence(cond, idx, *req.Checked)
	switch {
	case errors.Is(err, progress.ErrInvalidIndex):
		RespondWithValidationError(c, "index", err.Error())
		return
	case err != nil:
		ol.LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to save evidence")
		return
	}
	s.hub.SendProgressUpdated(cond.ID, "evidence")
	ol.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, NewEvidenceResponse(cond, state))
}

func (s *Server) clearEvidence(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	ol := s.operation(c, "clearEvidence")
	if err := s.progress.ClearEvidence(cond.ID); err != nil {
		ol.LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to clear evidence")
		return
	}
	s.hub.SendProgressUpdated(cond.ID, "evidence")
	ol.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, NewEvidenceResponse(cond, nil))
}

func (s *Server) exportEvidence(c *gin.Context) {
	cond, ok := s.condition(c)
	if !ok {
		return
	}
	text, err := s.progress.ExportChecklist(cond)
	if err != nil {
		s.operation(c, "exportEvidence").LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "failed to export checklist")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", progress.ExportFilename(cond)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
