// Package autodesign searches for the thinnest insulation package that brings
// a building to a target rating band.
package autodesign

import (
	"BERTool/internal/apperr"
	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/retrofit"
	"BERTool/internal/calc/tables"
)

const (
	StepCM = 2.0
	MaxCM  = 40.0
)

type Input struct {
	Building   ber.BuildingRequest   `json:"building"`
	TargetBand tables.Band           `json:"target_band"`
	WindowU    *float64              `json:"window_u_value,omitempty"`
	Heating    *tables.HeatingSystem `json:"heating_system_after,omitempty"`
}

type Result struct {
	Reached      bool           `json:"reached"`
	InsulationCM float64        `json:"insulation_cm"`
	Retrofit     retrofit.Input `json:"retrofit"`
	Band         tables.Band    `json:"band"`
	KWhPerM2     float64        `json:"kwh_per_m2"`
	Notes        string         `json:"notes"`
}

// Design raises wall and roof insulation together in StepCM increments with
// replacement windows until the target band is met. When even MaxCM falls
// short the MaxCM package is returned with Reached unset.
func Design(calc *ber.Calculator, in Input) (Result, error) {
	if !in.TargetBand.Valid() {
		return Result{}, apperr.Validation("unknown target band %d", int(in.TargetBand)).WithOp("autodesign")
	}
	b := in.Building.Input()

	base, err := calc.CalculateBER(b, nil)
	if err != nil {
		return Result{}, err
	}
	if !in.TargetBand.Better(base.Band) {
		return Result{
			Reached:  true,
			Band:     base.Band,
			KWhPerM2: base.KWhPerM2,
			Notes:    "Building already meets the target band.",
		}, nil
	}

	windowU := retrofit.DefaultWindowU
	if in.WindowU != nil {
		windowU = *in.WindowU
	}
	var last Result
	for cm := StepCM; cm <= MaxCM; cm += StepCM {
		rf := retrofit.Input{WallInsulationCM: cm, RoofInsulationCM: cm, WindowU: windowU, HeatingAfter: in.Heating}
		s, err := calc.Retrofit(b, rf)
		if err != nil {
			return Result{}, err
		}
		last = Result{InsulationCM: cm, Retrofit: rf, Band: s.Band, KWhPerM2: s.KWhPerM2}
		if !in.TargetBand.Better(s.Band) {
			last.Reached = true
			last.Notes = "Smallest wall and roof insulation reaching the target band."
			return last, nil
		}
	}
	last.Notes = "Target band not reachable with insulation and windows alone."
	return last, nil
}
