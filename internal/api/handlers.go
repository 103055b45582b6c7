package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/orchestrate"
)

// verifyRequest is the body of POST /api/v1/verify
type verifyRequest struct {
	ClaimID   string             `json:"claim_id"`
	ClaimText string             `json:"claim_text"`
	Context   model.ClaimContext `json:"context"`
}

// handleVerify runs one verification and returns the finalized result.
// INSUFFICIENT_EVIDENCE is the only non-result terminal state and maps to
// 422: the claim was well-formed, the evidence was not.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.ClaimText) == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "claim_text is required")
		return
	}
	if req.ClaimID == "" {
		req.ClaimID = uuid.NewString()
	}

	claim := model.Claim{
		ID:      req.ClaimID,
		Text:    req.ClaimText,
		Context: req.Context,
	}

	result, err := s.orchestrator.Verify(r.Context(), claim)
	if err != nil {
		if errors.Is(err, orchestrate.ErrInsufficientEvidence) {
			respondError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_EVIDENCE", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleHealth reports liveness and the configured provider set
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"providers": s.orchestrator.Providers(),
	})
}
