package importer

import (
	"bytes"
	"log/slog"
	"net/http"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/premium/batch"
	"BERTool/internal/httpx"
)

const maxUpload = 10 << 20

type Handler struct {
	Engine *ber.Calculator
	Log    *slog.Logger
}

type ImportResult struct {
	Count   int          `json:"count"`
	Rows    []Row        `json:"rows"`
	Skipped []RowError   `json:"skipped,omitempty"`
	Results batch.Result `json:"results"`
}

// XLSX handles POST /api/tools/import/xlsx with a multipart "file" field.
// With ?format=xlsx the results are returned as a workbook.
func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, h.Log, r, apperr.Wrap(apperr.KindBadRequest, "File required", err))
		return
	}
	defer file.Close()

	rows, skipped, err := Read(file)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}
	if len(rows) == 0 {
		httpx.Error(w, h.Log, r, apperr.BadRequest("No valid rows").WithDetails(skipped))
		return
	}
	res, err := Evaluate(r.Context(), h.Engine, rows)
	if err != nil {
		httpx.Error(w, h.Log, r, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		var buf bytes.Buffer
		if err := Write(&buf, rows, res); err != nil {
			httpx.Error(w, h.Log, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=\"ber-results.xlsx\"")
		_, _ = w.Write(buf.Bytes())
		return
	}
	httpx.JSON(w, http.StatusOK, ImportResult{Count: len(rows), Rows: rows, Skipped: skipped, Results: res})
}
