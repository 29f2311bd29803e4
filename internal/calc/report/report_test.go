package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/retrofit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	b := ber.BuildingRequest{LengthM: 12, WidthM: 10}.Input()
	rf := retrofit.Defaults()
	res, err := ber.New(ber.Options{}).CalculateBER(b, &rf)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Render(&buf, res, Meta{Project: "Reference house", Notes: "Survey 2024"}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestHexRGB(t *testing.T) {
	r, g, b := hexRGB("#00A651")
	assert.Equal(t, []int{0, 0xA6, 0x51}, []int{r, g, b})
	r, g, b = hexRGB("nope")
	assert.Equal(t, []int{128, 128, 128}, []int{r, g, b})
}

func TestHandler_Generate(t *testing.T) {
	h := &Handler{Engine: ber.New(ber.Options{})}
	body := `{"building":{"length_m":9,"width_m":7},"retrofit":{},"meta":{"title":"Test"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestHandler_ValidationError(t *testing.T) {
	h := &Handler{Engine: ber.New(ber.Options{})}
	req := httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", strings.NewReader(`{"building":{"length_m":-1,"width_m":7}}`))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
