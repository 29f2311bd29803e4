package geometry

import (
	"log/slog"
	"net/http"

	"BERTool/internal/httpx"
)

type Handler struct {
	Log *slog.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
