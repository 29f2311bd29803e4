package report

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"BERTool/internal/calc/ber"
	"BERTool/internal/httpx"
)

// Request is the body of POST /api/tools/report/pdf.
type Request struct {
	ber.Request
	Meta Meta `json:"meta"`
}

type Handler struct {
	Engine *ber.Calculator
	Log    *slog.Logger
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	if err := Render(&buf, res, req.Meta, time.Now()); err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"ber-report.pdf\"")
	_, _ = w.Write(buf.Bytes())
}
