package hwb

import (
	"testing"

	"BERTool/internal/calc/geometry"
	"BERTool/internal/calc/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceInput(t *testing.T, typ tables.BuildingType, epoch tables.Epoch) Input {
	t.Helper()
	g, err := geometry.Calculate(geometry.Input{LengthM: 12, WidthM: 10, Storeys: 2, StoreyHeightM: 3, Type: typ})
	require.NoError(t, err)
	e, err := tables.EpochCoefficients(epoch)
	require.NoError(t, err)
	c, err := tables.ClimateFor(tables.Ireland)
	require.NoError(t, err)
	return Input{Geometry: g, Coefficients: Coefficients{U: e.U, GValue: e.GValue}, Climate: c}
}

func TestCalculate_ReferenceHouse(t *testing.T) {
	res, err := Calculate(referenceInput(t, tables.Detached, tables.EpochBefore1980))
	require.NoError(t, err)

	assert.InDelta(t, 579.48, res.BasicTransmissionWK, 1e-6)
	assert.Zero(t, res.ThermalBridgeWK)
	assert.True(t, res.ThermalBridgeClamped, "mean U above 0.75 gets no supplement")
	assert.Greater(t, res.MeanU, ThermalBridgeReference)

	assert.InEpsilon(t, 29889, res.TransmissionLossKWh, 0.01)
	assert.InEpsilon(t, 7138, res.VentilationLossKWh, 0.01)
	assert.InEpsilon(t, 3784, res.InternalGainsKWh, 0.01)
	assert.InEpsilon(t, 5262, res.SolarGainsKWh, 0.01)
	assert.InEpsilon(t, 27980, res.HeatingDemandKWh, 0.01)
	assert.InEpsilon(t, 116.6, res.HWB, 0.01)
	assert.False(t, res.DemandClamped)
}

func TestCalculate_ThermalBridgeOnlyBelowReference(t *testing.T) {
	res, err := Calculate(referenceInput(t, tables.Detached, tables.EpochAfter2010))
	require.NoError(t, err)

	require.Less(t, res.MeanU, ThermalBridgeReference)
	want := ThermalBridgeFactor * (ThermalBridgeReference - res.MeanU) * res.BasicTransmissionWK
	assert.InDelta(t, want, res.ThermalBridgeWK, 1e-9)
	assert.False(t, res.ThermalBridgeClamped)
	assert.InDelta(t, res.BasicTransmissionWK+res.ThermalBridgeWK, res.TransmissionWK, 1e-9)
}

func TestCalculate_ThermalBridgeAtReferenceNotClamped(t *testing.T) {
	in := referenceInput(t, tables.Detached, tables.EpochBefore1980)
	in.Geometry.WindowAreaM2 = 10
	in.Geometry.RoofAreaM2 = 50
	in.Geometry.FloorAreaM2 = 0
	in.Geometry.ExternalWallAreaM2 = 40
	in.Coefficients.U = tables.UValues{Window: 0.75, Roof: 0.75, Floor: 0.75, Wall: 0.75}

	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, ThermalBridgeReference, res.MeanU)
	assert.Zero(t, res.ThermalBridgeWK)
	assert.False(t, res.ThermalBridgeClamped)
}

func TestCalculate_DemandClampsToZero(t *testing.T) {
	in := referenceInput(t, tables.Detached, tables.EpochAfter2010)
	in.Climate = tables.ClimateRecord{
		HeatingDegreeDays: 10,
		HeatingDays:       365,
		Solar:             tables.Irradiance{North: 500, East: 800, South: 1200, West: 800},
	}
	res, err := Calculate(in)
	require.NoError(t, err)

	require.Less(t, res.TransmissionLossKWh+res.VentilationLossKWh, res.InternalGainsKWh+res.SolarGainsKWh)
	assert.Equal(t, 0.0, res.HeatingDemandKWh)
	assert.Equal(t, 0.0, res.HWB)
	assert.True(t, res.DemandClamped)
}

func TestCalculate_HWBDecreasesByEpoch(t *testing.T) {
	prev := -1.0
	for i := len(tables.Epochs) - 1; i >= 0; i-- {
		res, err := Calculate(referenceInput(t, tables.Detached, tables.Epochs[i]))
		require.NoError(t, err)
		if prev >= 0 {
			assert.Greater(t, res.HWB, prev, tables.Epochs[i])
		}
		prev = res.HWB
	}
}

func TestCalculate_HWBDecreasesWithSharedWalls(t *testing.T) {
	for _, pair := range [][3]tables.BuildingType{
		{tables.Detached, tables.SemiDLength, tables.TerracedLength},
		{tables.Detached, tables.SemiDWidth, tables.TerracedWidth},
	} {
		var hwbs [3]float64
		for i, typ := range pair {
			res, err := Calculate(referenceInput(t, typ, tables.EpochBefore1980))
			require.NoError(t, err)
			hwbs[i] = res.HWB
		}
		assert.Greater(t, hwbs[0], hwbs[1], "detached > semi-detached")
		assert.Greater(t, hwbs[1], hwbs[2], "semi-detached > terraced")
	}
}

func TestCalculate_RejectsEmptyGeometry(t *testing.T) {
	_, err := Calculate(Input{Climate: tables.ClimateRecord{HeatingDegreeDays: 1, HeatingDays: 1}})
	assert.Error(t, err)
}
