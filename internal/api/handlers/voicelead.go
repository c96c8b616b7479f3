package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tonalworks/voicelead-api/internal/config"
	"github.com/tonalworks/voicelead-api/internal/logger"
	"github.com/tonalworks/voicelead-api/internal/metrics"
	"github.com/tonalworks/voicelead-api/internal/models"
	"github.com/tonalworks/voicelead-api/internal/optimize"
	"github.com/tonalworks/voicelead-api/internal/services"
	"github.com/tonalworks/voicelead-api/internal/theory"
	"github.com/tonalworks/voicelead-api/internal/voicing"
)

// VoiceleadHandler serves the optimization endpoints.
type VoiceleadHandler struct {
	svc *services.VoiceleadService
	cfg *config.Config
	cw  *metrics.Client
}

var sentryMetrics = metrics.NewSentryMetrics()

func NewVoiceleadHandler(svc *services.VoiceleadService, cfg *config.Config, cw *metrics.Client) *VoiceleadHandler {
	return &VoiceleadHandler{svc: svc, cfg: cfg, cw: cw}
}

// RegisterSpec bounds the usable register in MIDI note numbers.
type RegisterSpec struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// OptimizeRequest is the wire form of one optimization job.
type OptimizeRequest struct {
	Chords []string `json:"chords" binding:"required"`

	// Key, when set (e.g. "C"), enables harmonic-function scoring.
	Key string `json:"key"`

	Register    *RegisterSpec `json:"register"`
	Styles      []string      `json:"styles"`
	MaxVoices   int           `json:"max_voices"`
	MaxHandSpan int           `json:"max_hand_span"`

	Constraints  optimize.Constraints `json:"constraints"`
	Anchor       []int                `json:"anchor"`
	Mode         string               `json:"mode"` // dp (default), csp, graph
	CandidateCap int                  `json:"candidate_cap"`
	NodeBudget   int                  `json:"node_budget"`
	TopK         int                  `json:"top_k"`
	Pareto       bool                 `json:"pareto"`
	Weights      *optimize.Weights    `json:"weights"`

	// IncludeNoteEvents adds a playable note-event rendering to the response.
	IncludeNoteEvents bool    `json:"include_note_events"`
	BeatsPerChord     float64 `json:"beats_per_chord"`
}

// OptimizeResponse mirrors the engine result plus request bookkeeping.
type OptimizeResponse struct {
	RequestID    string                 `json:"request_id"`
	Voicings     []voicing.Voicing      `json:"voicings"`
	TotalCost    float64                `json:"total_cost"`
	EdgeCosts    []float64              `json:"edge_costs"`
	Feasible     bool                   `json:"feasible"`
	Optimal      bool                   `json:"optimal"`
	Alternatives []optimize.Alternative `json:"alternatives,omitempty"`
	NoteEvents   []models.NoteEvent     `json:"note_events,omitempty"`
}

// Optimize handles POST /api/v1/voicings/optimize.
func (h *VoiceleadHandler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svcReq, err := h.buildRequest(req)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	start := time.Now()
	res, err := h.svc.Optimize(c.Request.Context(), svcReq)
	duration := time.Since(start)
	h.cw.RecordOptimization(string(svcReq.Mode), err == nil, duration)
	sentryMetrics.RecordOptimization(c.Request.Context(), string(svcReq.Mode), len(svcReq.Chords), err == nil, duration)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	resp := OptimizeResponse{
		RequestID:    c.GetString("request_id"),
		Voicings:     res.Voicings,
		TotalCost:    res.TotalCost,
		EdgeCosts:    res.EdgeCosts,
		Feasible:     res.Feasible,
		Optimal:      res.Optimal,
		Alternatives: res.Alternatives,
	}
	if req.IncludeNoteEvents {
		resp.NoteEvents = services.VoicingsToNoteEvents(res.Voicings, 0, req.BeatsPerChord, 0)
	}
	c.JSON(http.StatusOK, resp)
}

// buildRequest validates the wire request into an engine request.
func (h *VoiceleadHandler) buildRequest(req OptimizeRequest) (services.VoiceleadRequest, error) {
	var out services.VoiceleadRequest

	chords, err := theory.ParseProgression(req.Chords)
	if err != nil {
		return out, err
	}
	out.Chords = chords

	if req.Key != "" {
		key, err := theory.ParsePitchClass(req.Key)
		if err != nil {
			return out, &theory.ParseError{Symbol: req.Key, Position: -1, Reason: "invalid key"}
		}
		out.Key, out.HasKey = key, true
	}

	gen := voicing.GeneratorConfig{
		MinPitch:      h.cfg.MinPitch,
		MaxPitch:      h.cfg.MaxPitch,
		MaxVoices:     req.MaxVoices,
		MaxHandSpan:   req.MaxHandSpan,
		MaxCandidates: req.CandidateCap,
	}
	if gen.MaxCandidates == 0 {
		gen.MaxCandidates = h.cfg.CandidateCap
	}
	if req.Register != nil {
		gen.MinPitch, gen.MaxPitch = req.Register.Min, req.Register.Max
	}
	for _, s := range req.Styles {
		style, ok := voicing.ParseStyle(s)
		if !ok {
			return out, &theory.ParseError{Symbol: s, Position: -1, Reason: "unknown voicing style"}
		}
		gen.Styles = append(gen.Styles, style)
	}
	out.Generator = gen

	mode, ok := optimize.ParseMode(req.Mode)
	if !ok {
		return out, &theory.ParseError{Symbol: req.Mode, Position: -1, Reason: "unknown optimizer mode"}
	}
	out.Mode = mode

	out.Optimize = optimize.Config{
		Constraints: req.Constraints,
		Anchor:      req.Anchor,
		NodeBudget:  req.NodeBudget,
		TopK:        req.TopK,
	}
	if out.Optimize.NodeBudget == 0 {
		out.Optimize.NodeBudget = h.cfg.NodeBudget
	}
	out.Pareto = req.Pareto
	if req.Weights != nil {
		out.Weights = *req.Weights
	}
	return out, nil
}

// respondEngineError maps the engine error taxonomy onto HTTP statuses with
// structured detail. Malformed input is 400; musically impossible requests
// are 422 with position and chord attached.
func respondEngineError(c *gin.Context, err error) {
	var parseErr *theory.ParseError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "parse_input",
			"symbol":   parseErr.Symbol,
			"position": parseErr.Position,
			"detail":   parseErr.Reason,
		})
		return
	}

	var noCand *voicing.NoCandidatesError
	if errors.As(err, &noCand) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "no_candidates",
			"position": noCand.Position,
			"chord":    noCand.Chord.String(),
			"register": gin.H{"min": noCand.MinPitch, "max": noCand.MaxPitch},
			"detail":   noCand.Error(),
		})
		return
	}

	var infeasible *optimize.InfeasibleError
	if errors.As(err, &infeasible) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "infeasible",
			"position":   infeasible.Position,
			"constraint": infeasible.Constraint,
			"detail":     infeasible.Error(),
		})
		return
	}

	var budget *optimize.BudgetExceededError
	if errors.As(err, &budget) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "budget_exceeded",
			"nodes_expanded": budget.NodesExpanded,
			"budget":         budget.Budget,
			"detail":         budget.Error(),
		})
		return
	}

	if errors.Is(err, optimize.ErrEmptyProgression) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parse_input", "detail": err.Error()})
		return
	}

	logger.Error("Optimization failed", err, logger.Fields{
		"request_id": c.GetString("request_id"),
	})
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "internal",
		"request_id": c.GetString("request_id"),
	})
}
