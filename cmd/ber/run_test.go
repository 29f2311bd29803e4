package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/report"
	"BERTool/internal/calc/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestManual_ReferenceHouse(t *testing.T) {
	out, err := execute(t, "manual", "--length", "12", "--width", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Rating: B3")
	assert.Contains(t, out, "Gross floor area")
	assert.NotContains(t, out, "After retrofit")
}

func TestManual_JSONWithRetrofit(t *testing.T) {
	out, err := execute(t, "manual", "--length", "12", "--width", "10", "--retrofit", "--json")
	require.NoError(t, err)

	var res ber.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, tables.BandB3, res.Band)
	require.NotNil(t, res.Retrofit)
	assert.Less(t, res.Retrofit.KWhPerM2, res.KWhPerM2)
}

func TestManual_HeatPumpAndResidents(t *testing.T) {
	out, err := execute(t, "manual", "--length", "12", "--width", "10",
		"--heating", "heat_pump_air", "--residents", "0", "--json")
	require.NoError(t, err)

	var res ber.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, tables.HeatPumpAir, res.Building.Heating)
	assert.Zero(t, res.HWB.HotWaterKWh)
}

func TestManual_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing width", []string{"manual", "--length", "12"}},
		{"zero length", []string{"manual", "--length", "0", "--width", "10"}},
		{"unknown epoch", []string{"manual", "--length", "12", "--width", "10", "--epoch", "1850"}},
		{"unknown profile", []string{"manual", "--length", "12", "--width", "10", "--pef-profile", "nope"}},
		{"unknown system after", []string{"manual", "--length", "12", "--width", "10", "--retrofit", "--heating-after", "coal"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestManual_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	out, err := execute(t, "manual", "--length", "12", "--width", "10", "--pdf", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestManual_PDFRemovedOnRenderFailure(t *testing.T) {
	renderReport = func(w io.Writer, _ ber.Result, _ report.Meta, _ time.Time) error {
		_, _ = w.Write([]byte("%PDF-1.3 partial"))
		return errors.New("font missing")
	}
	t.Cleanup(func() { renderReport = report.Render })

	path := filepath.Join(t.TempDir(), "report.pdf")
	_, err := execute(t, "manual", "--length", "12", "--width", "10", "--pdf", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "font missing")
	assert.NoFileExists(t, path)
}

func TestImport_Workbook(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xlsx")
	out := filepath.Join(dir, "out.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"length", "width", "heating_system"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{12, 10, "gas_boiler"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{12, 10, "heat_pump_air"}))
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	text, err := execute(t, "import", in, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, text, "2 rated, 0 failed, 0 skipped")
	assert.Contains(t, text, "B3")
	assert.Contains(t, text, "A2")

	res, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer res.Close()
	rows, err := res.GetRows("Results")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestImport_MissingFile(t *testing.T) {
	_, err := execute(t, "import", filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestTables(t *testing.T) {
	out, err := execute(t, "tables")
	require.NoError(t, err)
	for _, want := range []string{"before_1980", "ireland", "gas_boiler", "A1", "#00A651", "G"} {
		assert.Contains(t, out, want)
	}
}
