package batch

import (
	"log/slog"
	"net/http"

	"BERTool/internal/calc/ber"
	"BERTool/internal/httpx"
)

type Handler struct {
	Engine *ber.Calculator
	Log    *slog.Logger

	// Concurrency applies when the request does not set one.
	Concurrency int
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	if input.Concurrency <= 0 {
		input.Concurrency = h.Concurrency
	}
	res, err := Calculate(r.Context(), h.Engine, input)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
