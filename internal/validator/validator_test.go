package validator

import (
	"testing"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Length  float64              `json:"length_m" validate:"gt=0"`
	Epoch   tables.Epoch         `json:"construction_epoch" validate:"epoch"`
	Heating tables.HeatingSystem `json:"heating_system" validate:"heating_system"`
	Note    string               `validate:"omitempty,min=2"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(sample{Length: 1, Epoch: tables.EpochAfter2010, Heating: tables.Biomass}))
}

func TestStruct_CollectsAllFields(t *testing.T) {
	v := New()
	err := v.Struct(sample{Length: 0, Epoch: "1850", Heating: tables.GasBoiler, Note: "x"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	fields, ok := appErr.Details.([]FieldError)
	require.True(t, ok)
	require.Len(t, fields, 3)

	assert.Equal(t, "sample.length_m", fields[0].Field)
	assert.Equal(t, "gt", fields[0].Rule)
	assert.Equal(t, "0", fields[0].Param)
	assert.Equal(t, "sample.construction_epoch", fields[1].Field)
	assert.Equal(t, "epoch", fields[1].Rule)
	assert.Equal(t, "1850", fields[1].Value)
	assert.Equal(t, "sample.Note", fields[2].Field)

	assert.Contains(t, appErr.Message, "length_m must be > 0")
	assert.Contains(t, appErr.Message, `construction_epoch: unknown epoch "1850"`)
}

func TestStruct_NotAStruct(t *testing.T) {
	err := New().Struct(42)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}
