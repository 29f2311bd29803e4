package ber

import (
	"log/slog"
	"net/http"

	"BERTool/internal/calc/retrofit"
	"BERTool/internal/httpx"
)

// Request is the body of the calculation endpoints. Missing building fields
// take the defaults; a present retrofit object enables the retrofit pass.
type Request struct {
	Building BuildingRequest   `json:"building"`
	Retrofit *retrofit.Request `json:"retrofit,omitempty"`
}

// Resolve applies building defaults and converts the retrofit request.
func (req *Request) Resolve() (BuildingInput, *retrofit.Input) {
	b := req.Building.Input()
	if req.Retrofit == nil {
		return b, nil
	}
	in := req.Retrofit.Input()
	return b, &in
}

type Handler struct {
	Engine *Calculator
	Log    *slog.Logger
}

// BER handles POST /api/tools/ber/calc.
func (h *Handler) BER(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	b, rf := req.Resolve()
	res, err := h.Engine.CalculateBER(b, rf)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// HWB handles POST /api/tools/hwb/calc.
func (h *Handler) HWB(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	b, _ := req.Resolve()
	res, err := h.Engine.Calculate(b)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
