package tables

import (
	"fmt"
	"strings"
)

type BuildingType string

const (
	Detached       BuildingType = "detached"
	SemiDLength    BuildingType = "semi_d_length"   // party wall on a length side
	SemiDWidth     BuildingType = "semi_d_width"    // party wall on a width side
	TerracedLength BuildingType = "terraced_length" // party walls on both length sides
	TerracedWidth  BuildingType = "terraced_width"  // party walls on both width sides
)

var BuildingTypes = []BuildingType{Detached, SemiDLength, SemiDWidth, TerracedLength, TerracedWidth}

func (t BuildingType) Valid() bool { return contains(BuildingTypes, t) }

// PartyWalls returns how many walls are shared with neighbours.
func (t BuildingType) PartyWalls() int {
	switch t {
	case SemiDLength, SemiDWidth:
		return 1
	case TerracedLength, TerracedWidth:
		return 2
	default:
		return 0
	}
}

// AdjoinedOnLength reports whether the shared walls run along the length side.
func (t BuildingType) AdjoinedOnLength() bool {
	return t == SemiDLength || t == TerracedLength
}

func (t *BuildingType) UnmarshalText(b []byte) error {
	v, err := ParseBuildingType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func ParseBuildingType(s string) (BuildingType, error) { return parse(BuildingTypes, s, "building type") }

// Epoch is a construction period. The declared order runs oldest to newest.
type Epoch string

const (
	EpochBefore1980 Epoch = "before_1980"
	Epoch1980To1990 Epoch = "1980_1990"
	Epoch1990To2000 Epoch = "1990_2000"
	Epoch2000To2010 Epoch = "2000_2010"
	EpochAfter2010  Epoch = "after_2010"
)

var Epochs = []Epoch{EpochBefore1980, Epoch1980To1990, Epoch1990To2000, Epoch2000To2010, EpochAfter2010}

func (e Epoch) Valid() bool { return contains(Epochs, e) }

func (e *Epoch) UnmarshalText(b []byte) error {
	v, err := ParseEpoch(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func ParseEpoch(s string) (Epoch, error) { return parse(Epochs, s, "construction epoch") }

type Country string

const (
	Ireland     Country = "ireland"
	France      Country = "france"
	Germany     Country = "germany"
	Belgium     Country = "belgium"
	Netherlands Country = "netherlands"
	Austria     Country = "austria"
)

var Countries = []Country{Ireland, France, Germany, Belgium, Netherlands, Austria}

func (c Country) Valid() bool { return contains(Countries, c) }

func (c *Country) UnmarshalText(b []byte) error {
	v, err := ParseCountry(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func ParseCountry(s string) (Country, error) { return parse(Countries, s, "country") }

type HeatingSystem string

const (
	OilBoiler       HeatingSystem = "oil_boiler"
	GasBoiler       HeatingSystem = "gas_boiler"
	Biomass         HeatingSystem = "biomass"
	ElectricDirect  HeatingSystem = "electric_direct"
	HeatPumpAir     HeatingSystem = "heat_pump_air"
	HeatPumpGround  HeatingSystem = "heat_pump_ground"
	HeatPumpWater   HeatingSystem = "heat_pump_water"
	DistrictHeating HeatingSystem = "district_heating"
)

var HeatingSystems = []HeatingSystem{
	OilBoiler, GasBoiler, Biomass, ElectricDirect,
	HeatPumpAir, HeatPumpGround, HeatPumpWater, DistrictHeating,
}

func (h HeatingSystem) Valid() bool { return contains(HeatingSystems, h) }

func (h HeatingSystem) IsHeatPump() bool {
	return h == HeatPumpAir || h == HeatPumpGround || h == HeatPumpWater
}

func (h *HeatingSystem) UnmarshalText(b []byte) error {
	v, err := ParseHeatingSystem(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func ParseHeatingSystem(s string) (HeatingSystem, error) {
	return parse(HeatingSystems, s, "heating system")
}

// Band is a rating band. Lower values are more efficient.
type Band int

const (
	BandA1 Band = iota
	BandA2
	BandA3
	BandB1
	BandB2
	BandB3
	BandC1
	BandC2
	BandC3
	BandD1
	BandD2
	BandE1
	BandE2
	BandF
	BandG
)

var bandNames = [...]string{"A1", "A2", "A3", "B1", "B2", "B3", "C1", "C2", "C3", "D1", "D2", "E1", "E2", "F", "G"}

func (b Band) Valid() bool { return b >= BandA1 && b <= BandG }

func (b Band) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return bandNames[b]
}

// Better reports whether b is a more efficient band than other.
func (b Band) Better(other Band) bool { return b < other }

func (b Band) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid band %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *Band) UnmarshalText(text []byte) error {
	v, err := ParseBand(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func ParseBand(s string) (Band, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range bandNames {
		if name == s {
			return Band(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rating band %q", s)
}

func contains[T comparable](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func parse[T ~string](set []T, s, what string) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if contains(set, v) {
		return v, nil
	}
	names := make([]string, len(set))
	for i, x := range set {
		names[i] = string(x)
	}
	return "", fmt.Errorf("unknown %s %q (want one of %s)", what, s, strings.Join(names, ", "))
}
