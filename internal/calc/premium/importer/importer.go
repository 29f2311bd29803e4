// Package importer reads building rows from XLSX workbooks and writes rated
// results back out.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/premium/batch"
	"BERTool/internal/calc/tables"

	"github.com/xuri/excelize/v2"
)

// Column names of the input sheet. Matching is case-insensitive and ignores
// a unit suffix such as "_m".
const (
	ColLength       = "length"
	ColWidth        = "width"
	ColStoreys      = "storeys"
	ColStoreyHeight = "storey_height"
	ColType         = "building_type"
	ColEpoch        = "epoch"
	ColCountry      = "country"
	ColHeating      = "heating_system"
	ColHotWater     = "hw_electric"
	ColResidents    = "residents"
)

var aliases = map[string]string{
	"length_m":                    ColLength,
	"width_m":                     ColWidth,
	"heated_storeys":              ColStoreys,
	"storey_height_m":             ColStoreyHeight,
	"type":                        ColType,
	"construction_epoch":          ColEpoch,
	"heating":                     ColHeating,
	"hot_water_electric_separate": ColHotWater,
}

// Row is one parsed line of the sheet. Line is the 1-based sheet row.
type Row struct {
	Line    int         `json:"line"`
	Request ber.Request `json:"request"`
}

// RowError reports a line that could not be parsed.
type RowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// Read parses the first sheet of an XLSX workbook. Lines with unparsable
// cells are reported in the second return value and skipped; blank lines
// are ignored.
func Read(r io.Reader) ([]Row, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindBadRequest, "Invalid file", err).WithOp("importer")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	lines, err := f.GetRows(sheet)
	if err != nil || len(lines) < 2 {
		return nil, nil, apperr.BadRequest("Empty sheet").WithOp("importer")
	}

	cols, err := header(lines[0])
	if err != nil {
		return nil, nil, err
	}

	var rows []Row
	var bad []RowError
	for i := 1; i < len(lines); i++ {
		if blank(lines[i]) {
			continue
		}
		req, err := parseRow(cols, lines[i])
		if err != nil {
			bad = append(bad, RowError{Line: i + 1, Error: err.Error()})
			continue
		}
		rows = append(rows, Row{Line: i + 1, Request: req})
	}
	return rows, bad, nil
}

func header(row []string) (map[string]int, error) {
	cols := make(map[string]int, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if a, ok := aliases[key]; ok {
			key = a
		}
		cols[key] = i
	}
	for _, req := range []string{ColLength, ColWidth} {
		if _, ok := cols[req]; !ok {
			return nil, apperr.BadRequest(fmt.Sprintf("missing column %q", req)).WithOp("importer")
		}
	}
	return cols, nil
}

func parseRow(cols map[string]int, row []string) (ber.Request, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var b ber.BuildingRequest
	var err error
	if b.LengthM, err = toFloat(cell(ColLength), ColLength); err != nil {
		return ber.Request{}, err
	}
	if b.WidthM, err = toFloat(cell(ColWidth), ColWidth); err != nil {
		return ber.Request{}, err
	}
	if s := cell(ColStoreys); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return ber.Request{}, fmt.Errorf("%s: %q is not an integer", ColStoreys, s)
		}
		b.Storeys = &n
	}
	if s := cell(ColStoreyHeight); s != "" {
		h, err := toFloat(s, ColStoreyHeight)
		if err != nil {
			return ber.Request{}, err
		}
		b.StoreyHeightM = &h
	}
	if s := cell(ColType); s != "" {
		if b.Type, err = tables.ParseBuildingType(s); err != nil {
			return ber.Request{}, err
		}
	}
	if s := cell(ColEpoch); s != "" {
		if b.Epoch, err = tables.ParseEpoch(s); err != nil {
			return ber.Request{}, err
		}
	}
	if s := cell(ColCountry); s != "" {
		if b.Country, err = tables.ParseCountry(s); err != nil {
			return ber.Request{}, err
		}
	}
	if s := cell(ColHeating); s != "" {
		if b.Heating, err = tables.ParseHeatingSystem(s); err != nil {
			return ber.Request{}, err
		}
	}
	if s := cell(ColHotWater); s != "" {
		if b.HotWaterElectric, err = toBool(s, ColHotWater); err != nil {
			return ber.Request{}, err
		}
	}
	if s := cell(ColResidents); s != "" {
		n, err := toFloat(s, ColResidents)
		if err != nil {
			return ber.Request{}, err
		}
		b.Residents = &n
	}
	return ber.Request{Building: b}, nil
}

// Evaluate rates the parsed rows concurrently.
func Evaluate(ctx context.Context, calc *ber.Calculator, rows []Row) (batch.Result, error) {
	in := batch.Input{Items: make([]ber.Request, len(rows))}
	for i, r := range rows {
		in.Items[i] = r.Request
	}
	return batch.Calculate(ctx, calc, in)
}

var resultHeader = []interface{}{
	"line", "length_m", "width_m", "building_type", "epoch", "country", "heating_system",
	"gross_area_m2", "hwb", "final_kwh", "primary_kwh", "co2_kg", "kwh_per_m2", "band", "error",
}

// Write stores one result line per row in a new workbook. rows and res must
// come from the same Read and Evaluate calls.
func Write(w io.Writer, rows []Row, res batch.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return apperr.Wrap(apperr.KindInternal, "workbook error", err).WithOp("importer")
	}
	if err := setRow(f, sheet, 1, resultHeader); err != nil {
		return err
	}
	for i, item := range res.Results {
		line := 0
		if i < len(rows) {
			line = rows[i].Line
		}
		var values []interface{}
		if item.Result == nil {
			values = []interface{}{line, "", "", "", "", "", "", "", "", "", "", "", "", "", item.Error}
		} else {
			r := item.Result
			b := r.Building
			values = []interface{}{
				line, b.LengthM, b.WidthM, string(b.Type), string(b.Epoch), string(b.Country), string(b.Heating),
				round(r.HWB.FloorAreaM2), round(r.HWB.HWB), round(r.HWB.FinalEnergyKWh),
				round(r.HWB.PrimaryEnergyKWh), round(r.HWB.CO2Kg), round(r.KWhPerM2), r.Band.String(), "",
			}
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return apperr.Wrap(apperr.KindInternal, "workbook error", err).WithOp("importer")
	}
	return nil
}

func setRow(f *excelize.File, sheet string, n int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "workbook error", err).WithOp("importer")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return apperr.Wrap(apperr.KindInternal, "workbook error", err).WithOp("importer")
	}
	return nil
}

func round(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

func toFloat(s, col string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", col, s)
	}
	return v, nil
}

func toBool(s, col string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "x":
		return true, nil
	case "no", "n", "-":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", col, s)
	}
	return v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
