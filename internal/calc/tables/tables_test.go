package tables

import (
	"encoding/json"
	"testing"

	"BERTool/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestEveryVariantHasARecord(t *testing.T) {
	for _, e := range Epochs {
		_, err := EpochCoefficients(e)
		assert.NoError(t, err, e)
	}
	for _, c := range Countries {
		_, err := ClimateFor(c)
		assert.NoError(t, err, c)
	}
	for _, h := range HeatingSystems {
		_, err := SystemFor(h)
		assert.NoError(t, err, h)
	}
	for _, b := range BuildingTypes {
		_, err := WindowFraction(b)
		assert.NoError(t, err, b)
	}
}

func TestUnknownVariantIsLookupError(t *testing.T) {
	_, err := EpochCoefficients(Epoch("medieval"))
	assert.True(t, apperr.Is(err, apperr.KindLookup))

	_, err = ClimateFor(Country("atlantis"))
	assert.True(t, apperr.Is(err, apperr.KindLookup))

	_, err = SystemFor(HeatingSystem("peat_stove"))
	assert.True(t, apperr.Is(err, apperr.KindLookup))
}

func TestEpochUValuesDecreaseWithAge(t *testing.T) {
	prev, err := EpochCoefficients(Epochs[0])
	require.NoError(t, err)
	for _, e := range Epochs[1:] {
		rec, err := EpochCoefficients(e)
		require.NoError(t, err)
		assert.LessOrEqual(t, rec.U.Wall, prev.U.Wall, e)
		assert.LessOrEqual(t, rec.U.Window, prev.U.Window, e)
		assert.LessOrEqual(t, rec.U.Floor, prev.U.Floor, e)
		prev = rec
	}
}

func TestBandsAreCopies(t *testing.T) {
	b := Bands()
	b[0].UpperBound = 1e9
	assert.Equal(t, 25.0, Bands()[0].UpperBound)
	assert.Len(t, b, 15)
}

func TestParseEnums(t *testing.T) {
	bt, err := ParseBuildingType(" Terraced_Width ")
	require.NoError(t, err)
	assert.Equal(t, TerracedWidth, bt)
	assert.Equal(t, 2, bt.PartyWalls())
	assert.False(t, bt.AdjoinedOnLength())

	_, err = ParseEpoch("1970s")
	assert.Error(t, err)

	h, err := ParseHeatingSystem("heat_pump_air")
	require.NoError(t, err)
	assert.True(t, h.IsHeatPump())
	assert.False(t, GasBoiler.IsHeatPump())
}

func TestEnumJSON(t *testing.T) {
	var in struct {
		Country Country `json:"country"`
		Band    Band    `json:"band"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"country":"germany","band":"c2"}`), &in))
	assert.Equal(t, Germany, in.Country)
	assert.Equal(t, BandC2, in.Band)

	err := json.Unmarshal([]byte(`{"country":"mars"}`), &in)
	assert.Error(t, err)

	out, err := json.Marshal(BandE1)
	require.NoError(t, err)
	assert.JSONEq(t, `"E1"`, string(out))
}

func TestBandOrdering(t *testing.T) {
	assert.True(t, BandA1.Better(BandG))
	assert.False(t, BandC1.Better(BandB3))
	assert.Equal(t, "F", BandF.String())
}
