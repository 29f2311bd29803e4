// Package history lets authenticated users rate a building and keep the
// result for later.
package history

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"BERTool/internal/apperr"
	"BERTool/internal/auth"
	"BERTool/internal/calc/ber"
	"BERTool/internal/httpx"
	"BERTool/internal/repo"

	"github.com/gorilla/mux"
)

type Handler struct {
	Repo   repo.Repository
	Engine *ber.Calculator
	Log    *slog.Logger
}

type SaveRequest struct {
	Name string `json:"name"`
	ber.Request
}

const maxNameLen = 120

// Save handles POST /api/user/assessments.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.Error(w, h.Log, r, apperr.Unauthorized("Unauthorized"))
		return
	}
	var req SaveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = "Assessment"
	}
	if len(req.Name) > maxNameLen {
		httpx.Error(w, h.Log, r, apperr.Validation("name must be at most %d characters", maxNameLen))
		return
	}

	b, rf := req.Resolve()
	res, err := h.Engine.CalculateBER(b, rf)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	input, err := json.Marshal(req.Request)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	result, err := json.Marshal(res)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}

	saved, err := h.Repo.SaveAssessment(r.Context(), repo.Assessment{
		UserID:   userID,
		Name:     req.Name,
		Band:     res.Band,
		KWhPerM2: res.KWhPerM2,
		Input:    input,
		Result:   result,
	})
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	if h.Log != nil {
		h.Log.Info("assessment saved",
			slog.Int("user_id", userID),
			slog.String("id", saved.ID),
			slog.String("band", saved.Band.String()),
		)
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

// List handles GET /api/user/assessments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.Error(w, h.Log, r, apperr.Unauthorized("Unauthorized"))
		return
	}
	list, err := h.Repo.ListAssessments(r.Context(), userID)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Get handles GET /api/user/assessments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.Error(w, h.Log, r, apperr.Unauthorized("Unauthorized"))
		return
	}
	a, err := h.Repo.GetAssessment(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
