package ber

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"BERTool/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/tools/ber/calc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandler_BERWithDefaults(t *testing.T) {
	h := &Handler{Engine: New(Options{})}
	rec := post(t, h.BER, `{"building":{"length_m":12,"width_m":10}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Band     string  `json:"band"`
		KWhPerM2 float64 `json:"kwh_per_m2"`
		Building struct {
			Epoch string `json:"construction_epoch"`
		} `json:"building"`
		Retrofit *json.RawMessage `json:"retrofit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "B3", got.Band)
	assert.Equal(t, "before_1980", got.Building.Epoch)
	assert.Nil(t, got.Retrofit)
}

func TestHandler_BERWithRetrofit(t *testing.T) {
	h := &Handler{Engine: New(Options{})}
	rec := post(t, h.BER, `{"building":{"length_m":12,"width_m":10},"retrofit":{"wall_insulation_cm":0}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.RetrofitInput)
	assert.Zero(t, got.RetrofitInput.WallInsulationCM)
	assert.Equal(t, 20.0, got.RetrofitInput.RoofInsulationCM)
	require.NotNil(t, got.Retrofit)
	assert.Less(t, got.Retrofit.KWhPerM2, got.KWhPerM2)
}

func TestHandler_HWB(t *testing.T) {
	h := &Handler{Engine: New(Options{})}
	rec := post(t, h.HWB, `{"building":{"length_m":12,"width_m":10,"construction_epoch":"after_2010"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got HWBResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 240.0, got.FloorAreaM2)
	assert.Less(t, got.HWB, 40.0)
}

func TestHandler_Errors(t *testing.T) {
	h := &Handler{Engine: New(Options{})}
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"malformed", `{"building":`, http.StatusBadRequest, "bad_request"},
		{"unknown field", `{"building":{"length_m":12,"width_m":10,"colour":"red"}}`, http.StatusBadRequest, "bad_request"},
		{"unknown enum", `{"building":{"length_m":12,"width_m":10,"country":"mars"}}`, http.StatusBadRequest, "bad_request"},
		{"invalid dimensions", `{"building":{"length_m":0,"width_m":10}}`, http.StatusUnprocessableEntity, "validation"},
		{"explicit zero storeys", `{"building":{"length_m":12,"width_m":10,"heated_storeys":0}}`, http.StatusUnprocessableEntity, "validation"},
		{"explicit zero storey height", `{"building":{"length_m":12,"width_m":10,"storey_height_m":0}}`, http.StatusUnprocessableEntity, "validation"},
		{"overflowing dimensions", `{"building":{"length_m":1e200,"width_m":1e200}}`, http.StatusUnprocessableEntity, "validation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h.BER, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			var body httpx.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestBuildingRequest_Input(t *testing.T) {
	b := BuildingRequest{LengthM: 12, WidthM: 10}.Input()
	assert.Equal(t, DefaultStoreys, b.Storeys)
	assert.Equal(t, DefaultStoreyHeightM, b.StoreyHeightM)
	assert.Equal(t, DefaultType, b.Type)
	assert.Equal(t, DefaultEpoch, b.Epoch)
	assert.Equal(t, DefaultCountry, b.Country)
	assert.Equal(t, DefaultHeating, b.Heating)

	zero, zeroHeight := 0, 0.0
	b = BuildingRequest{LengthM: 12, WidthM: 10, Storeys: &zero, StoreyHeightM: &zeroHeight}.Input()
	assert.Zero(t, b.Storeys)
	assert.Zero(t, b.StoreyHeightM)

	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"building":{"length_m":12,"width_m":10,"heated_storeys":0}}`), &req))
	b, _ = req.Resolve()
	assert.Zero(t, b.Storeys)
	_, err := New(Options{}).Calculate(b)
	assert.Error(t, err)
}
