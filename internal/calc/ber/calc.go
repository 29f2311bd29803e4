// Package ber composes the engine stages into the two public passes:
// Calculate (geometry, heat balance, energy conversion) and CalculateBER,
// which adds the rating and an optional retrofit scenario.
package ber

import (
	"BERTool/internal/apperr"
	"BERTool/internal/calc/energy"
	"BERTool/internal/calc/geometry"
	"BERTool/internal/calc/hwb"
	"BERTool/internal/calc/rating"
	"BERTool/internal/calc/retrofit"
	"BERTool/internal/calc/tables"
	"BERTool/internal/validator"
)

// BuildingInput is one fully resolved building. The engine does not fill in
// missing values; wire callers go through BuildingRequest.Input.
type BuildingInput struct {
	LengthM       float64              `json:"length_m" validate:"gt=0"`
	WidthM        float64              `json:"width_m" validate:"gt=0"`
	Storeys       int                  `json:"heated_storeys" validate:"gte=1"`
	StoreyHeightM float64              `json:"storey_height_m" validate:"gt=0.35"`
	Type          tables.BuildingType  `json:"building_type" validate:"building_type"`
	Epoch         tables.Epoch         `json:"construction_epoch" validate:"epoch"`
	Country       tables.Country       `json:"country" validate:"country"`
	Heating       tables.HeatingSystem `json:"heating_system" validate:"heating_system"`

	Windows          *geometry.WindowAreas `json:"windows,omitempty"`
	Residents        *float64              `json:"residents,omitempty" validate:"omitempty,gte=0"`
	HotWaterElectric bool                  `json:"hot_water_electric_separate,omitempty"`
}

// Defaults of a typical pre-1980 detached Irish house with a gas boiler.
const (
	DefaultStoreys       = 2
	DefaultStoreyHeightM = 3.0
	DefaultType          = tables.Detached
	DefaultEpoch         = tables.EpochBefore1980
	DefaultCountry       = tables.Ireland
	DefaultHeating       = tables.GasBoiler
)

// BuildingRequest is the wire form of BuildingInput. Absent fields take the
// defaults; explicit values, zero included, are kept and validated.
type BuildingRequest struct {
	LengthM       float64              `json:"length_m"`
	WidthM        float64              `json:"width_m"`
	Storeys       *int                 `json:"heated_storeys,omitempty"`
	StoreyHeightM *float64             `json:"storey_height_m,omitempty"`
	Type          tables.BuildingType  `json:"building_type,omitempty"`
	Epoch         tables.Epoch         `json:"construction_epoch,omitempty"`
	Country       tables.Country       `json:"country,omitempty"`
	Heating       tables.HeatingSystem `json:"heating_system,omitempty"`

	Windows          *geometry.WindowAreas `json:"windows,omitempty"`
	Residents        *float64              `json:"residents,omitempty"`
	HotWaterElectric bool                  `json:"hot_water_electric_separate,omitempty"`
}

func (r BuildingRequest) Input() BuildingInput {
	b := BuildingInput{
		LengthM:          r.LengthM,
		WidthM:           r.WidthM,
		Storeys:          DefaultStoreys,
		StoreyHeightM:    DefaultStoreyHeightM,
		Type:             r.Type,
		Epoch:            r.Epoch,
		Country:          r.Country,
		Heating:          r.Heating,
		Windows:          r.Windows,
		Residents:        r.Residents,
		HotWaterElectric: r.HotWaterElectric,
	}
	if r.Storeys != nil {
		b.Storeys = *r.Storeys
	}
	if r.StoreyHeightM != nil {
		b.StoreyHeightM = *r.StoreyHeightM
	}
	if b.Type == "" {
		b.Type = DefaultType
	}
	if b.Epoch == "" {
		b.Epoch = DefaultEpoch
	}
	if b.Country == "" {
		b.Country = DefaultCountry
	}
	if b.Heating == "" {
		b.Heating = DefaultHeating
	}
	return b
}

// HWBResult is the outcome of one calculation pass.
type HWBResult struct {
	FloorAreaM2          float64 `json:"floor_area_m2"` // gross
	HeatedVolumeM3       float64 `json:"heated_volume_m3"`
	TransmissionLossKWh  float64 `json:"transmission_loss_kwh"`
	VentilationLossKWh   float64 `json:"ventilation_loss_kwh"`
	SolarGainsKWh        float64 `json:"solar_gains_kwh"`
	InternalGainsKWh     float64 `json:"internal_gains_kwh"`
	HeatingDemandKWh     float64 `json:"heating_demand_kwh"`
	HWB                  float64 `json:"hwb"`
	FinalEnergyKWh       float64 `json:"final_energy_kwh"`
	HotWaterKWh          float64 `json:"hot_water_kwh"`
	PrimaryEnergyKWh     float64 `json:"primary_energy_kwh"`
	CO2Kg                float64 `json:"co2_kg"`
	FinalHeatingKWhPerM2 float64 `json:"final_heating_kwh_per_m2"`
	FinalKWhPerM2        float64 `json:"final_kwh_per_m2"`
	PrimaryKWhPerM2      float64 `json:"primary_kwh_per_m2"`
	CO2KgPerM2           float64 `json:"co2_kg_per_m2"`

	Coefficients hwb.Coefficients `json:"coefficients"`
	Geometry     geometry.Result  `json:"geometry"`
	Balance      hwb.Result       `json:"balance"`
	Energy       energy.Result    `json:"energy"`
}

// Scenario is a rated pass.
type Scenario struct {
	Band     tables.Band   `json:"band"`
	KWhPerM2 float64       `json:"kwh_per_m2"`
	Color    string        `json:"color"`
	HWB      HWBResult     `json:"hwb_result"`
	Building BuildingInput `json:"building"`
}

type Result struct {
	Scenario
	Retrofit      *Scenario       `json:"retrofit,omitempty"`
	RetrofitInput *retrofit.Input `json:"retrofit_input,omitempty"`
}

// Improvement is the reduction of the rating metric achieved by the retrofit.
func (r Result) Improvement() float64 {
	if r.Retrofit == nil {
		return 0
	}
	return r.KWhPerM2 - r.Retrofit.KWhPerM2
}

type Options struct {
	// PrimaryEnergyFactor applies to every heating system without an entry
	// in PrimaryEnergyFactors. Zero means energy.DefaultPrimaryEnergyFactor.
	PrimaryEnergyFactor  float64
	PrimaryEnergyFactors map[tables.HeatingSystem]float64
	CorrectedVolume      bool
}

// Calculator is immutable after New and safe for concurrent use.
type Calculator struct {
	opts     Options
	validate *validator.Validator
}

func New(opts Options) *Calculator {
	pefs := make(map[tables.HeatingSystem]float64, len(opts.PrimaryEnergyFactors))
	for k, v := range opts.PrimaryEnergyFactors {
		pefs[k] = v
	}
	opts.PrimaryEnergyFactors = pefs
	return &Calculator{opts: opts, validate: validator.New()}
}

func (c *Calculator) PrimaryEnergyFactor(h tables.HeatingSystem) float64 {
	if f, ok := c.opts.PrimaryEnergyFactors[h]; ok && f > 0 {
		return f
	}
	if c.opts.PrimaryEnergyFactor > 0 {
		return c.opts.PrimaryEnergyFactor
	}
	return energy.DefaultPrimaryEnergyFactor
}

// Calculate runs one pass with the epoch's canonical coefficients.
func (c *Calculator) Calculate(b BuildingInput) (HWBResult, error) {
	if err := c.validate.Struct(b); err != nil {
		return HWBResult{}, err
	}
	rec, err := tables.EpochCoefficients(b.Epoch)
	if err != nil {
		return HWBResult{}, err
	}
	return c.calculate(b, hwb.Coefficients{U: rec.U, GValue: rec.GValue})
}

// CalculateBER rates the building and, when r is given, a retrofit scenario
// with overlaid U-values and the optional replacement heating system.
func (c *Calculator) CalculateBER(b BuildingInput, r *retrofit.Input) (Result, error) {
	base, err := c.Calculate(b)
	if err != nil {
		return Result{}, err
	}
	res := Result{Scenario: rate(base, b)}
	if r == nil {
		return res, nil
	}

	after, err := c.Retrofit(b, *r)
	if err != nil {
		return Result{}, err
	}
	in := *r
	res.Retrofit = &after
	res.RetrofitInput = &in
	return res, nil
}

// Retrofit rates the retrofit pass alone.
func (c *Calculator) Retrofit(b BuildingInput, r retrofit.Input) (Scenario, error) {
	if err := c.validate.Struct(b); err != nil {
		return Scenario{}, err
	}
	rec, err := tables.EpochCoefficients(b.Epoch)
	if err != nil {
		return Scenario{}, err
	}
	u, err := retrofit.Apply(rec.U, r)
	if err != nil {
		return Scenario{}, err
	}
	after := b
	if r.HeatingAfter != nil {
		after.Heating = *r.HeatingAfter
	}
	if r.HotWaterElectricAfter {
		after.HotWaterElectric = true
	}
	res, err := c.calculate(after, hwb.Coefficients{U: u, GValue: rec.GValue})
	if err != nil {
		return Scenario{}, err
	}
	return rate(res, after), nil
}

func (c *Calculator) calculate(b BuildingInput, coeff hwb.Coefficients) (HWBResult, error) {
	geo, err := geometry.Calculate(geometry.Input{
		LengthM:         b.LengthM,
		WidthM:          b.WidthM,
		Storeys:         b.Storeys,
		StoreyHeightM:   b.StoreyHeightM,
		Type:            b.Type,
		Windows:         b.Windows,
		CorrectedVolume: c.opts.CorrectedVolume,
	})
	if err != nil {
		return HWBResult{}, err
	}
	climate, err := tables.ClimateFor(b.Country)
	if err != nil {
		return HWBResult{}, err
	}
	bal, err := hwb.Calculate(hwb.Input{Geometry: geo, Coefficients: coeff, Climate: climate})
	if err != nil {
		return HWBResult{}, err
	}

	heating, err := tables.SystemFor(b.Heating)
	if err != nil {
		return HWBResult{}, err
	}
	hotWater := heating
	if b.HotWaterElectric {
		if hotWater, err = tables.SystemFor(tables.ElectricDirect); err != nil {
			return HWBResult{}, err
		}
	}
	residents := energy.DefaultResidents(geo.GrossAreaM2)
	if b.Residents != nil {
		residents = *b.Residents
	}
	en, err := energy.Convert(energy.Input{
		HeatingDemandKWh:    bal.HeatingDemandKWh,
		Residents:           residents,
		Heating:             heating,
		HotWater:            hotWater,
		PrimaryEnergyFactor: c.PrimaryEnergyFactor(b.Heating),
	})
	if err != nil {
		return HWBResult{}, err
	}

	area := geo.GrossAreaM2
	if area <= 0 {
		return HWBResult{}, apperr.Validation("gross floor area must be > 0")
	}
	return HWBResult{
		FloorAreaM2:          area,
		HeatedVolumeM3:       geo.HeatedVolumeM3,
		TransmissionLossKWh:  bal.TransmissionLossKWh,
		VentilationLossKWh:   bal.VentilationLossKWh,
		SolarGainsKWh:        bal.SolarGainsKWh,
		InternalGainsKWh:     bal.InternalGainsKWh,
		HeatingDemandKWh:     bal.HeatingDemandKWh,
		HWB:                  bal.HWB,
		FinalEnergyKWh:       en.FinalTotalKWh,
		HotWaterKWh:          en.HotWaterKWh,
		PrimaryEnergyKWh:     en.PrimaryEnergyKWh,
		CO2Kg:                en.CO2Kg,
		FinalHeatingKWhPerM2: en.FinalHeatingKWh / area,
		FinalKWhPerM2:        en.FinalTotalKWh / area,
		PrimaryKWhPerM2:      en.PrimaryEnergyKWh / area,
		CO2KgPerM2:           en.CO2Kg / area,
		Coefficients:         coeff,
		Geometry:             geo,
		Balance:              bal,
		Energy:               en,
	}, nil
}

// rate classifies a pass by primary energy per gross floor area.
func rate(res HWBResult, b BuildingInput) Scenario {
	band := rating.Classify(res.PrimaryKWhPerM2)
	return Scenario{
		Band:     band.Band,
		KWhPerM2: res.PrimaryKWhPerM2,
		Color:    band.Color,
		HWB:      res,
		Building: b,
	}
}
