package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tonalworks/voicelead-api/internal/services"
)

// ReharmonizeRequest asks for ranked chord substitutions at one position.
type ReharmonizeRequest struct {
	OptimizeRequest

	Position       int `json:"position"`
	MaxSuggestions int `json:"max_suggestions"`
}

// Reharmonize handles POST /api/v1/reharmonize.
func (h *VoiceleadHandler) Reharmonize(c *gin.Context) {
	var req ReharmonizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svcReq, err := h.buildRequest(req.OptimizeRequest)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if req.Position < 0 || req.Position >= len(svcReq.Chords) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "parse_input",
			"detail":   "position out of range",
			"position": req.Position,
		})
		return
	}

	suggestions, err := h.svc.Reharmonize(c.Request.Context(), services.ReharmonizeRequest{
		VoiceleadRequest: svcReq,
		Position:         req.Position,
		MaxSuggestions:   req.MaxSuggestions,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id":  c.GetString("request_id"),
		"position":    req.Position,
		"original":    svcReq.Chords[req.Position].String(),
		"suggestions": suggestions,
	})
}
