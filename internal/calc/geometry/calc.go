package geometry

import (
	"math"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/tables"
)

const (
	NetToGrossRatio = 0.8
	FloorThicknessM = 0.35 // deducted from storey height for the heated volume
)

// WindowAreas are window and door areas per orientation in m².
// Doors count towards transmission but receive no solar gain.
type WindowAreas struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
	Doors float64 `json:"doors"`
}

func (w WindowAreas) Total() float64 {
	return w.North + w.East + w.South + w.West + w.Doors
}

type Input struct {
	LengthM       float64             `json:"length_m"`
	WidthM        float64             `json:"width_m"`
	Storeys       int                 `json:"heated_storeys"`
	StoreyHeightM float64             `json:"storey_height_m"`
	Type          tables.BuildingType `json:"building_type"`
	Windows       *WindowAreas        `json:"windows,omitempty"`

	// CorrectedVolume drops the second storey multiplier from the heated
	// volume. Off by default to stay at parity with the reference workbook.
	CorrectedVolume bool `json:"corrected_volume,omitempty"`
}

type Result struct {
	GrossAreaM2        float64     `json:"gross_area_m2"`
	NetAreaM2          float64     `json:"net_area_m2"`
	EnvelopeAreaM2     float64     `json:"envelope_area_m2"`
	RoofAreaM2         float64     `json:"roof_area_m2"`
	FloorAreaM2        float64     `json:"floor_area_m2"`
	WindowFraction     float64     `json:"window_fraction"`
	WindowAreaM2       float64     `json:"window_area_m2"`
	Windows            WindowAreas `json:"windows"`
	PartyWallAreaM2    float64     `json:"party_wall_area_m2"`
	ExternalWallAreaM2 float64     `json:"external_wall_area_m2"`
	HeatedVolumeM3     float64     `json:"heated_volume_m3"`
}

// Calculate derives areas and volume from the raw dimensions of a
// rectangular building.
func Calculate(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	n := float64(in.Storeys)
	footprint := in.LengthM * in.WidthM
	wallHeight := n * in.StoreyHeightM

	res := Result{
		GrossAreaM2:    footprint * n,
		EnvelopeAreaM2: (in.LengthM + in.WidthM) * 2 * wallHeight,
		RoofAreaM2:     footprint,
		FloorAreaM2:    footprint,
	}
	res.NetAreaM2 = res.GrossAreaM2 * NetToGrossRatio

	if in.Windows != nil {
		res.Windows = *in.Windows
		res.WindowAreaM2 = in.Windows.Total()
		if res.EnvelopeAreaM2 > 0 {
			res.WindowFraction = res.WindowAreaM2 / res.EnvelopeAreaM2
		}
	} else {
		frac, err := tables.WindowFraction(in.Type)
		if err != nil {
			return Result{}, err
		}
		res.WindowFraction = frac
		res.WindowAreaM2 = res.EnvelopeAreaM2 * frac
		q := res.WindowAreaM2 / 4
		res.Windows = WindowAreas{North: q, East: q, South: q, West: q}
	}

	res.PartyWallAreaM2 = partyWallArea(in.Type, in.LengthM, in.WidthM, wallHeight)

	ext := res.EnvelopeAreaM2 - res.WindowAreaM2 - res.PartyWallAreaM2
	if ext < 0 {
		return Result{}, apperr.Validation(
			"window area %.2f m² plus party wall area %.2f m² exceeds envelope area %.2f m²",
			res.WindowAreaM2, res.PartyWallAreaM2, res.EnvelopeAreaM2,
		).WithOp("geometry")
	}
	res.ExternalWallAreaM2 = ext

	// The reference workbook multiplies by storeys although net area already
	// spans all storeys. Kept as the default; see CorrectedVolume.
	res.HeatedVolumeM3 = res.NetAreaM2 * (in.StoreyHeightM - FloorThicknessM)
	if !in.CorrectedVolume {
		res.HeatedVolumeM3 *= n
	}
	if !finite(res.GrossAreaM2, res.NetAreaM2, res.EnvelopeAreaM2, res.RoofAreaM2,
		res.WindowAreaM2, res.PartyWallAreaM2, res.ExternalWallAreaM2, res.HeatedVolumeM3) {
		return Result{}, apperr.Validation("dimensions are too large: derived areas overflow").WithOp("geometry")
	}
	return res, nil
}

func partyWallArea(t tables.BuildingType, length, width, wallHeight float64) float64 {
	walls := float64(t.PartyWalls())
	if walls == 0 {
		return 0
	}
	side := width
	if t.AdjoinedOnLength() {
		side = length
	}
	return side * wallHeight * walls
}

func validate(in Input) error {
	if !finite(in.LengthM, in.WidthM, in.StoreyHeightM) {
		return apperr.Validation("dimensions must be finite numbers").WithOp("geometry")
	}
	if w := in.Windows; w != nil && !finite(w.North, w.East, w.South, w.West, w.Doors) {
		return apperr.Validation("window areas must be finite numbers").WithOp("geometry")
	}
	switch {
	case in.LengthM <= 0:
		return apperr.Validation("length must be > 0, got %g", in.LengthM).WithOp("geometry")
	case in.WidthM <= 0:
		return apperr.Validation("width must be > 0, got %g", in.WidthM).WithOp("geometry")
	case in.Storeys < 1:
		return apperr.Validation("heated storeys must be >= 1, got %d", in.Storeys).WithOp("geometry")
	case in.StoreyHeightM <= FloorThicknessM:
		return apperr.Validation("storey height must be > %.2f m, got %g", FloorThicknessM, in.StoreyHeightM).WithOp("geometry")
	case !in.Type.Valid():
		return apperr.Validation("unknown building type %q", in.Type).WithOp("geometry")
	}
	if w := in.Windows; w != nil {
		if w.North < 0 || w.East < 0 || w.South < 0 || w.West < 0 || w.Doors < 0 {
			return apperr.Validation("window areas must not be negative").WithOp("geometry")
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
