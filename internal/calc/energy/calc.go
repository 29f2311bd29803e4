// Package energy converts useful heat into final energy, primary energy and
// CO2 emissions.
package energy

import (
	"math"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/tables"
)

const (
	HotWaterLitresPerPersonDay = 40.0
	HotWaterDaysPerYear        = 365.0
	WaterHeatCapacityKWh       = 4.2 / 3600 // kWh/(kg·K)
	HotWaterTemperatureRiseK   = 45.0

	// AreaPerResident is the floor area per occupant used when the
	// resident count is not given.
	AreaPerResident = 52.0

	// DefaultPrimaryEnergyFactor applies when no factor is configured.
	// No authoritative value is bundled.
	DefaultPrimaryEnergyFactor = 1.0
)

// HotWaterDemand is the annual useful hot-water energy in kWh (≈765 per person).
func HotWaterDemand(residents float64) float64 {
	return residents * HotWaterLitresPerPersonDay * HotWaterDaysPerYear * WaterHeatCapacityKWh * HotWaterTemperatureRiseK
}

// DefaultResidents estimates occupancy from gross floor area, at least one.
func DefaultResidents(grossAreaM2 float64) float64 {
	return math.Max(1, grossAreaM2/AreaPerResident)
}

type Input struct {
	HeatingDemandKWh float64
	Residents        float64
	Heating          tables.SystemRecord

	// HotWater is the system serving hot water. It equals Heating unless hot
	// water is met by a separate electric system.
	HotWater tables.SystemRecord

	PrimaryEnergyFactor float64
}

type Result struct {
	Residents           float64 `json:"residents"`
	HotWaterKWh         float64 `json:"hot_water_kwh"`
	FinalHeatingKWh     float64 `json:"final_heating_kwh"`
	FinalHotWaterKWh    float64 `json:"final_hot_water_kwh"`
	FinalTotalKWh       float64 `json:"final_total_kwh"`
	PrimaryEnergyFactor float64 `json:"primary_energy_factor"`
	PrimaryEnergyKWh    float64 `json:"primary_energy_kwh"`
	CO2Kg               float64 `json:"co2_kg"`
}

// Convert divides useful energy by efficiency or SCOP. The same formula holds
// for boilers (final > useful) and heat pumps (final < useful).
func Convert(in Input) (Result, error) {
	if in.Heating.Efficiency <= 0 || in.HotWater.Efficiency <= 0 {
		return Result{}, apperr.Lookup("heating system record without efficiency").WithOp("energy")
	}
	if in.HeatingDemandKWh < 0 {
		return Result{}, apperr.Validation("heating demand must not be negative").WithOp("energy")
	}
	if in.Residents < 0 {
		return Result{}, apperr.Validation("residents must not be negative, got %g", in.Residents).WithOp("energy")
	}
	pef := in.PrimaryEnergyFactor
	if pef <= 0 {
		pef = DefaultPrimaryEnergyFactor
	}

	res := Result{
		Residents:           in.Residents,
		HotWaterKWh:         HotWaterDemand(in.Residents),
		PrimaryEnergyFactor: pef,
	}
	res.FinalHeatingKWh = in.HeatingDemandKWh / in.Heating.Efficiency
	res.FinalHotWaterKWh = res.HotWaterKWh / in.HotWater.Efficiency
	res.FinalTotalKWh = res.FinalHeatingKWh + res.FinalHotWaterKWh
	res.PrimaryEnergyKWh = res.FinalTotalKWh * pef
	res.CO2Kg = res.FinalHeatingKWh*in.Heating.CO2KgPerKWh + res.FinalHotWaterKWh*in.HotWater.CO2KgPerKWh
	return res, nil
}
