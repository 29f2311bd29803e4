package recommend

import (
	"log/slog"
	"net/http"

	"BERTool/internal/calc/ber"
	"BERTool/internal/httpx"
)

type Handler struct {
	Engine *ber.Calculator
	Log    *slog.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	res, err := Recommend(h.Engine, input)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
