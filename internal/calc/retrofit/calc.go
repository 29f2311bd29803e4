// Package retrofit derives post-retrofit fabric coefficients. It never touches
// the canonical epoch records; Apply returns a new set for one request.
package retrofit

import (
	"BERTool/internal/apperr"
	"BERTool/internal/calc/tables"
)

const (
	InsulationConductivity = 0.035 // W/mK

	DefaultWallInsulationCM = 12.0
	DefaultRoofInsulationCM = 20.0
	DefaultWindowU          = 1.0
)

type Input struct {
	WallInsulationCM float64 `json:"wall_insulation_cm"`
	RoofInsulationCM float64 `json:"roof_insulation_cm"`

	// WindowU replaces the window U-value. Zero keeps the existing windows.
	WindowU float64 `json:"window_u_value"`

	// HeatingAfter replaces the heating system for the retrofit pass only.
	HeatingAfter          *tables.HeatingSystem `json:"heating_system_after,omitempty"`
	HotWaterElectricAfter bool                  `json:"hot_water_electric_separate_after,omitempty"`
}

func Defaults() Input {
	return Input{
		WallInsulationCM: DefaultWallInsulationCM,
		RoofInsulationCM: DefaultRoofInsulationCM,
		WindowU:          DefaultWindowU,
	}
}

// Request is the wire form of Input. Absent fields take the defaults while
// explicit zeros are kept.
type Request struct {
	WallInsulationCM      *float64              `json:"wall_insulation_cm,omitempty"`
	RoofInsulationCM      *float64              `json:"roof_insulation_cm,omitempty"`
	WindowU               *float64              `json:"window_u_value,omitempty"`
	HeatingAfter          *tables.HeatingSystem `json:"heating_system_after,omitempty"`
	HotWaterElectricAfter bool                  `json:"hot_water_electric_separate_after,omitempty"`
}

func (r Request) Input() Input {
	in := Defaults()
	if r.WallInsulationCM != nil {
		in.WallInsulationCM = *r.WallInsulationCM
	}
	if r.RoofInsulationCM != nil {
		in.RoofInsulationCM = *r.RoofInsulationCM
	}
	if r.WindowU != nil {
		in.WindowU = *r.WindowU
	}
	in.HeatingAfter = r.HeatingAfter
	in.HotWaterElectricAfter = r.HotWaterElectricAfter
	return in
}

// AddInsulation adds an insulation layer in series: 1/U' = 1/U + d/λ.
// A zero thickness returns u unchanged.
func AddInsulation(u, thicknessCM float64) float64 {
	if thicknessCM == 0 {
		return u
	}
	return 1 / (1/u + (thicknessCM/100)/InsulationConductivity)
}

func Validate(in Input) error {
	switch {
	case in.WallInsulationCM < 0:
		return apperr.Validation("wall insulation must not be negative, got %g cm", in.WallInsulationCM).WithOp("retrofit")
	case in.RoofInsulationCM < 0:
		return apperr.Validation("roof insulation must not be negative, got %g cm", in.RoofInsulationCM).WithOp("retrofit")
	case in.WindowU < 0:
		return apperr.Validation("window U-value must not be negative, got %g", in.WindowU).WithOp("retrofit")
	case in.HeatingAfter != nil && !in.HeatingAfter.Valid():
		return apperr.Validation("unknown heating system %q", *in.HeatingAfter).WithOp("retrofit")
	}
	return nil
}

// Apply overlays the retrofit measures on base. Floor U-values are unchanged.
func Apply(base tables.UValues, in Input) (tables.UValues, error) {
	if err := Validate(in); err != nil {
		return tables.UValues{}, err
	}
	out := base
	out.Wall = AddInsulation(base.Wall, in.WallInsulationCM)
	out.Roof = AddInsulation(base.Roof, in.RoofInsulationCM)
	if in.WindowU > 0 {
		out.Window = in.WindowU
	}
	return out, nil
}
