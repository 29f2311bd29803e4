package rating

import "BERTool/internal/calc/tables"

// Classify maps an energy-per-area metric (kWh/m²a) to its band. Upper
// bounds are inclusive, so a value on a boundary gets the better band.
func Classify(kwhPerM2 float64) tables.BandRecord {
	bands := tables.Bands()
	for _, b := range bands {
		if kwhPerM2 <= b.UpperBound {
			return b
		}
	}
	// NaN compares false against every bound.
	return bands[len(bands)-1]
}
