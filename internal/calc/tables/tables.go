// Package tables holds the static coefficient tables of the heat-balance
// engine: U-values and g-values per construction epoch, climate per country,
// efficiency and CO2 intensity per heating system, and the rating bands.
//
// Every enumerated variant maps to exactly one record. The maps are private
// and accessors return copies, so callers can never alter a canonical record.
package tables

import (
	"math"

	"BERTool/internal/apperr"
)

// UValues are fabric transmittances in W/m²K.
type UValues struct {
	Window float64 `json:"window"`
	Roof   float64 `json:"roof"`
	Floor  float64 `json:"floor"`
	Wall   float64 `json:"wall"`
}

type EpochRecord struct {
	U      UValues `json:"u"`
	GValue float64 `json:"g_value"`
}

// Irradiance is the heating-season solar irradiance per orientation in kWh/m².
type Irradiance struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
}

type ClimateRecord struct {
	HeatingDegreeDays float64    `json:"heating_degree_days"`
	HeatingDays       float64    `json:"heating_days"`
	Solar             Irradiance `json:"solar"`
}

// SystemRecord holds efficiency (boilers, < 1) or SCOP (heat pumps, > 1)
// and the CO2 intensity of the delivered fuel in kg/kWh.
type SystemRecord struct {
	Efficiency  float64 `json:"efficiency"`
	CO2KgPerKWh float64 `json:"co2_kg_per_kwh"`
}

type BandRecord struct {
	Band       Band    `json:"band"`
	UpperBound float64 `json:"upper_bound"` // inclusive; +Inf for G
	Color      string  `json:"color"`
}

var epochs = map[Epoch]EpochRecord{
	EpochBefore1980: {U: UValues{Window: 3.00, Roof: 0.65, Floor: 1.35, Wall: 1.20}, GValue: 0.81},
	Epoch1980To1990: {U: UValues{Window: 2.50, Roof: 0.275, Floor: 0.75, Wall: 0.60}, GValue: 0.70},
	Epoch1990To2000: {U: UValues{Window: 2.15, Roof: 0.235, Floor: 0.60, Wall: 0.45}, GValue: 0.65},
	Epoch2000To2010: {U: UValues{Window: 1.40, Roof: 0.20, Floor: 0.40, Wall: 0.35}, GValue: 0.585},
	EpochAfter2010:  {U: UValues{Window: 1.00, Roof: 0.20, Floor: 0.25, Wall: 0.22}, GValue: 0.465},
}

// Austria carries placeholder climate values; no measured record exists for it.
var climates = map[Country]ClimateRecord{
	Ireland:     {HeatingDegreeDays: 2149.1, HeatingDays: 219, Solar: Irradiance{North: 102, East: 227, South: 423, West: 240}},
	France:      {HeatingDegreeDays: 1462.0, HeatingDays: 187, Solar: Irradiance{North: 95, East: 207, South: 412, West: 219}},
	Germany:     {HeatingDegreeDays: 2157.1, HeatingDays: 211, Solar: Irradiance{North: 133, East: 215, South: 331, West: 207}},
	Belgium:     {HeatingDegreeDays: 1825.5, HeatingDays: 209, Solar: Irradiance{North: 160, East: 222, South: 321, West: 225}},
	Netherlands: {HeatingDegreeDays: 1921.3, HeatingDays: 212, Solar: Irradiance{North: 162, East: 239, South: 365, West: 243}},
	Austria:     {HeatingDegreeDays: 3400.0, HeatingDays: 260, Solar: Irradiance{North: 90, East: 150, South: 290, West: 150}},
}

var systems = map[HeatingSystem]SystemRecord{
	OilBoiler:       {Efficiency: 0.85, CO2KgPerKWh: 0.2639},
	GasBoiler:       {Efficiency: 0.90, CO2KgPerKWh: 0.194},
	Biomass:         {Efficiency: 0.875, CO2KgPerKWh: 0},
	ElectricDirect:  {Efficiency: 0.99, CO2KgPerKWh: 0.210},
	HeatPumpAir:     {Efficiency: 3.50, CO2KgPerKWh: 0.210},
	HeatPumpGround:  {Efficiency: 4.50, CO2KgPerKWh: 0.210},
	HeatPumpWater:   {Efficiency: 4.50, CO2KgPerKWh: 0.210},
	DistrictHeating: {Efficiency: 0.95, CO2KgPerKWh: 0.180},
}

var windowFractions = map[BuildingType]float64{
	Detached:       0.15,
	SemiDLength:    0.14,
	SemiDWidth:     0.14,
	TerracedLength: 0.13,
	TerracedWidth:  0.13,
}

var bands = []BandRecord{
	{BandA1, 25, "#00A651"},
	{BandA2, 50, "#4DB848"},
	{BandA3, 75, "#8CC63F"},
	{BandB1, 100, "#BFD730"},
	{BandB2, 125, "#FFF200"},
	{BandB3, 150, "#FFC20E"},
	{BandC1, 175, "#F99D1C"},
	{BandC2, 200, "#F47920"},
	{BandC3, 225, "#EF4136"},
	{BandD1, 260, "#ED1C24"},
	{BandD2, 300, "#C1272D"},
	{BandE1, 340, "#A1232B"},
	{BandE2, 380, "#8B1A29"},
	{BandF, 450, "#6D1A27"},
	{BandG, math.Inf(1), "#4A1525"},
}

// SEAIPrimaryEnergyFactors is an optional primary-energy profile
// (1.10 for combustion fuels, 2.08 for grid electricity). It is not an
// authoritative source and is only used when configuration selects it.
var SEAIPrimaryEnergyFactors = map[HeatingSystem]float64{
	OilBoiler:       1.10,
	GasBoiler:       1.10,
	Biomass:         1.10,
	ElectricDirect:  2.08,
	HeatPumpAir:     2.08,
	HeatPumpGround:  2.08,
	HeatPumpWater:   2.08,
	DistrictHeating: 1.10,
}

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}

// EpochCoefficients returns the U-values and g-value bound to an epoch.
func EpochCoefficients(e Epoch) (EpochRecord, error) {
	rec, ok := epochs[e]
	if !ok {
		return EpochRecord{}, apperr.Lookup("no coefficient record for construction epoch %q", e)
	}
	return rec, nil
}

func ClimateFor(c Country) (ClimateRecord, error) {
	rec, ok := climates[c]
	if !ok {
		return ClimateRecord{}, apperr.Lookup("no climate record for country %q", c)
	}
	return rec, nil
}

func SystemFor(h HeatingSystem) (SystemRecord, error) {
	rec, ok := systems[h]
	if !ok {
		return SystemRecord{}, apperr.Lookup("no efficiency record for heating system %q", h)
	}
	return rec, nil
}

// WindowFraction is the share of the envelope area taken by windows and doors.
func WindowFraction(t BuildingType) (float64, error) {
	f, ok := windowFractions[t]
	if !ok {
		return 0, apperr.Lookup("no window fraction for building type %q", t)
	}
	return f, nil
}

// Bands returns the rating bands in ascending order of upper bound.
func Bands() []BandRecord {
	out := make([]BandRecord, len(bands))
	copy(out, bands)
	return out
}

// BandFor returns the record of a single band.
func BandFor(b Band) (BandRecord, error) {
	if !b.Valid() {
		return BandRecord{}, apperr.Lookup("no record for rating band %d", int(b))
	}
	return bands[b], nil
}

// Validate checks that every enumerated variant has a usable record and that
// the band table is strictly ascending and ends with an unbounded band.
func Validate() error {
	for _, e := range Epochs {
		rec, ok := epochs[e]
		if !ok {
			return apperr.Lookup("epoch %q missing from U-value table", e)
		}
		u := rec.U
		if u.Window <= 0 || u.Roof <= 0 || u.Floor <= 0 || u.Wall <= 0 || rec.GValue <= 0 || rec.GValue > 1 {
			return apperr.Lookup("epoch %q has non-physical coefficients", e)
		}
	}
	for _, c := range Countries {
		rec, ok := climates[c]
		if !ok {
			return apperr.Lookup("country %q missing from climate table", c)
		}
		if rec.HeatingDegreeDays <= 0 || rec.HeatingDays <= 0 {
			return apperr.Lookup("country %q has non-physical climate data", c)
		}
	}
	for _, h := range HeatingSystems {
		rec, ok := systems[h]
		if !ok {
			return apperr.Lookup("heating system %q missing from efficiency table", h)
		}
		if rec.Efficiency <= 0 || rec.CO2KgPerKWh < 0 {
			return apperr.Lookup("heating system %q has non-physical efficiency data", h)
		}
		if _, ok := SEAIPrimaryEnergyFactors[h]; !ok {
			return apperr.Lookup("heating system %q missing from primary energy profile", h)
		}
	}
	for _, t := range BuildingTypes {
		if _, ok := windowFractions[t]; !ok {
			return apperr.Lookup("building type %q missing from window fraction table", t)
		}
	}
	for i, b := range bands {
		if b.Band != Band(i) {
			return apperr.Lookup("band table out of order at %s", b.Band)
		}
		if i > 0 && b.UpperBound <= bands[i-1].UpperBound {
			return apperr.Lookup("band %s upper bound not ascending", b.Band)
		}
	}
	if !math.IsInf(bands[len(bands)-1].UpperBound, 1) {
		return apperr.Lookup("last rating band must be unbounded")
	}
	return nil
}
