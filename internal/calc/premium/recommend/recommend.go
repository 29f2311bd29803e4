// Package recommend ranks single retrofit measures by how much each one
// lowers the rating metric on its own.
package recommend

import (
	"sort"

	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/retrofit"
	"BERTool/internal/calc/tables"
)

type Measure string

const (
	WallInsulation Measure = "wall_insulation"
	RoofInsulation Measure = "roof_insulation"
	Windows        Measure = "windows"
	HeatPump       Measure = "heat_pump"
)

type Input struct {
	Building ber.BuildingRequest `json:"building"`
}

type Option struct {
	Measure     Measure        `json:"measure"`
	Description string         `json:"description"`
	Retrofit    retrofit.Input `json:"retrofit"`
	Band        tables.Band    `json:"band"`
	KWhPerM2    float64        `json:"kwh_per_m2"`
	Improvement float64        `json:"improvement"`
}

type Result struct {
	Band     tables.Band `json:"band"`
	KWhPerM2 float64     `json:"kwh_per_m2"`
	Options  []Option    `json:"options"`
}

func candidates(b ber.BuildingInput) []Option {
	hp := tables.HeatPumpAir
	opts := []Option{
		{Measure: WallInsulation, Description: "Add 12 cm of wall insulation",
			Retrofit: retrofit.Input{WallInsulationCM: retrofit.DefaultWallInsulationCM}},
		{Measure: RoofInsulation, Description: "Add 20 cm of roof insulation",
			Retrofit: retrofit.Input{RoofInsulationCM: retrofit.DefaultRoofInsulationCM}},
		{Measure: Windows, Description: "Replace windows with U = 1.0 W/m2K glazing",
			Retrofit: retrofit.Input{WindowU: retrofit.DefaultWindowU}},
	}
	if !b.Heating.IsHeatPump() {
		opts = append(opts, Option{Measure: HeatPump, Description: "Replace the heating system with an air source heat pump",
			Retrofit: retrofit.Input{HeatingAfter: &hp}})
	}
	return opts
}

// Recommend evaluates every applicable measure and sorts them by improvement,
// best first. Measures that do not improve the metric are dropped.
func Recommend(calc *ber.Calculator, in Input) (Result, error) {
	b := in.Building.Input()
	base, err := calc.CalculateBER(b, nil)
	if err != nil {
		return Result{}, err
	}

	out := Result{Band: base.Band, KWhPerM2: base.KWhPerM2, Options: []Option{}}
	for _, opt := range candidates(b) {
		s, err := calc.Retrofit(b, opt.Retrofit)
		if err != nil {
			return Result{}, err
		}
		opt.Band = s.Band
		opt.KWhPerM2 = s.KWhPerM2
		opt.Improvement = base.KWhPerM2 - s.KWhPerM2
		if opt.Improvement > 0 {
			out.Options = append(out.Options, opt)
		}
	}
	sort.SliceStable(out.Options, func(i, j int) bool {
		return out.Options[i].Improvement > out.Options[j].Improvement
	})
	return out, nil
}
