// Package hwb implements the steady-state annual heat balance: fabric
// transmission and ventilation losses offset by internal and solar gains.
package hwb

import (
	"math"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/geometry"
	"BERTool/internal/calc/tables"
)

const (
	KWhPerDegreeDay = 0.024 // 24 h / 1000
	FloorFactor     = 0.7   // ground-contact reduction on the floor U-value

	ThermalBridgeFactor    = 0.2
	ThermalBridgeReference = 0.75 // W/m²K

	AirHeatCapacity = 0.34 // Wh/m³K
	AirChangeRate   = 0.4  // 1/h

	InternalGainRate = 3.75 // W/m² of net floor area

	FrameFactor   = 0.9
	DirtFactor    = 0.98
	ShadingFactor = 0.75
)

// Coefficients are the fabric properties used by one pass. The retrofit
// overlay substitutes a derived set; the canonical epoch record stays intact.
type Coefficients struct {
	U      tables.UValues `json:"u"`
	GValue float64        `json:"g_value"`
}

type Input struct {
	Geometry     geometry.Result
	Coefficients Coefficients
	Climate      tables.ClimateRecord
}

type Result struct {
	// Loss coefficients in W/K.
	BasicTransmissionWK float64 `json:"basic_transmission_w_k"` // L_e
	ThermalBridgeWK     float64 `json:"thermal_bridge_w_k"`     // L_psi
	TransmissionWK      float64 `json:"transmission_w_k"`       // L_t
	VentilationWK       float64 `json:"ventilation_w_k"`        // L_v
	MeanU               float64 `json:"mean_u"`

	// Annual quantities in kWh.
	TransmissionLossKWh float64 `json:"transmission_loss_kwh"`
	VentilationLossKWh  float64 `json:"ventilation_loss_kwh"`
	InternalGainsKWh    float64 `json:"internal_gains_kwh"`
	SolarGainsKWh       float64 `json:"solar_gains_kwh"`
	EffectiveGValue     float64 `json:"effective_g_value"`
	HeatingDemandKWh    float64 `json:"heating_demand_kwh"`

	HWB float64 `json:"hwb"` // kWh/m²a over gross floor area

	// Policy clamps, reported rather than raised.
	ThermalBridgeClamped bool `json:"thermal_bridge_clamped"`
	DemandClamped        bool `json:"demand_clamped"`
}

// Calculate runs the annual balance. Gains are subtracted at full value;
// no utilisation factor is applied.
func Calculate(in Input) (Result, error) {
	g := in.Geometry
	u := in.Coefficients.U
	c := in.Climate
	if g.GrossAreaM2 <= 0 {
		return Result{}, apperr.Validation("gross floor area must be > 0").WithOp("hwb")
	}
	if c.HeatingDegreeDays <= 0 || c.HeatingDays <= 0 {
		return Result{}, apperr.Lookup("climate record without degree days").WithOp("hwb")
	}

	var res Result

	res.BasicTransmissionWK = u.Window*g.WindowAreaM2 +
		u.Roof*g.RoofAreaM2 +
		u.Floor*g.FloorAreaM2*FloorFactor +
		u.Wall*g.ExternalWallAreaM2

	area := g.WindowAreaM2 + g.RoofAreaM2 + g.FloorAreaM2 + g.ExternalWallAreaM2
	if area > 0 {
		res.MeanU = res.BasicTransmissionWK / area
		psi := ThermalBridgeFactor * (ThermalBridgeReference - res.MeanU) * res.BasicTransmissionWK
		if psi < 0 {
			res.ThermalBridgeClamped = true
		} else {
			res.ThermalBridgeWK = psi
		}
	}
	res.TransmissionWK = res.BasicTransmissionWK + res.ThermalBridgeWK
	res.TransmissionLossKWh = KWhPerDegreeDay * res.TransmissionWK * c.HeatingDegreeDays

	res.VentilationWK = AirHeatCapacity * AirChangeRate * g.HeatedVolumeM3
	res.VentilationLossKWh = KWhPerDegreeDay * res.VentilationWK * c.HeatingDegreeDays

	res.InternalGainsKWh = KWhPerDegreeDay * InternalGainRate * g.NetAreaM2 * c.HeatingDays

	res.EffectiveGValue = in.Coefficients.GValue * FrameFactor * DirtFactor
	irr := c.Solar
	w := g.Windows
	res.SolarGainsKWh = (irr.North*w.North + irr.East*w.East + irr.South*w.South + irr.West*w.West) *
		ShadingFactor * res.EffectiveGValue

	demand := res.TransmissionLossKWh + res.VentilationLossKWh - res.InternalGainsKWh - res.SolarGainsKWh
	if demand < 0 {
		res.DemandClamped = true
	}
	res.HeatingDemandKWh = math.Max(0, demand)
	res.HWB = res.HeatingDemandKWh / g.GrossAreaM2
	return res, nil
}
