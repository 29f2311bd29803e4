// Package report renders a rating certificate as a single-page PDF.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/ber"

	"github.com/phpdave11/gofpdf"
)

// Meta is the free-text header of a report.
type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

const defaultTitle = "Building Energy Rating"

// Render writes the PDF for res to w. The date is taken from now so that
// callers can produce reproducible documents.
func Render(w io.Writer, res ber.Result, meta Meta, now time.Time) error {
	if meta.Title == "" {
		meta.Title = defaultTitle
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, false)
	pdf.SetAuthor(meta.Author, false)
	pdf.SetCreationDate(now)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if meta.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
		pdf.Ln(6)
	}
	if meta.Author != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	banner(pdf, "Current", res.Scenario)
	if res.Retrofit != nil {
		banner(pdf, "After retrofit", *res.Retrofit)
	}
	pdf.Ln(4)

	b := res.Building
	section(pdf, "Building")
	rows(pdf, [][2]string{
		{"Dimensions", fmt.Sprintf("%.2f m x %.2f m, %d storeys of %.2f m", b.LengthM, b.WidthM, b.Storeys, b.StoreyHeightM)},
		{"Type", string(b.Type)},
		{"Construction epoch", string(b.Epoch)},
		{"Country", string(b.Country)},
		{"Heating system", string(b.Heating)},
	})

	g := res.HWB.Geometry
	section(pdf, "Geometry")
	rows(pdf, [][2]string{
		{"Gross floor area", num(g.GrossAreaM2, "m2")},
		{"Net floor area", num(g.NetAreaM2, "m2")},
		{"Envelope area", num(g.EnvelopeAreaM2, "m2")},
		{"Window area", num(g.WindowAreaM2, "m2")},
		{"Party wall area", num(g.PartyWallAreaM2, "m2")},
		{"External wall area", num(g.ExternalWallAreaM2, "m2")},
		{"Heated volume", num(g.HeatedVolumeM3, "m3")},
	})

	h := res.HWB
	section(pdf, "Heat balance")
	rows(pdf, [][2]string{
		{"Transmission losses", num(h.TransmissionLossKWh, "kWh/a")},
		{"Ventilation losses", num(h.VentilationLossKWh, "kWh/a")},
		{"Internal gains", num(h.InternalGainsKWh, "kWh/a")},
		{"Solar gains", num(h.SolarGainsKWh, "kWh/a")},
		{"Heating demand", num(h.HeatingDemandKWh, "kWh/a")},
		{"HWB", num(h.HWB, "kWh/m2a")},
	})

	section(pdf, "Energy")
	rows(pdf, [][2]string{
		{"Hot water demand", num(h.HotWaterKWh, "kWh/a")},
		{"Final energy", num(h.FinalEnergyKWh, "kWh/a")},
		{"Primary energy", num(h.PrimaryEnergyKWh, "kWh/a")},
		{"CO2 emissions", num(h.CO2Kg, "kg/a")},
		{"Rating metric", num(res.KWhPerM2, "kWh/m2a")},
	})

	if r := res.Retrofit; r != nil {
		section(pdf, "Retrofit comparison")
		rows(pdf, [][2]string{
			{"Wall U-value", fmt.Sprintf("%.3f -> %.3f W/m2K", h.Coefficients.U.Wall, r.HWB.Coefficients.U.Wall)},
			{"Roof U-value", fmt.Sprintf("%.3f -> %.3f W/m2K", h.Coefficients.U.Roof, r.HWB.Coefficients.U.Roof)},
			{"Window U-value", fmt.Sprintf("%.3f -> %.3f W/m2K", h.Coefficients.U.Window, r.HWB.Coefficients.U.Window)},
			{"Heating system", fmt.Sprintf("%s -> %s", b.Heating, r.Building.Heating)},
			{"HWB", fmt.Sprintf("%.1f -> %.1f kWh/m2a", h.HWB, r.HWB.HWB)},
			{"Rating metric", fmt.Sprintf("%.1f -> %.1f kWh/m2a", res.KWhPerM2, r.KWhPerM2)},
		})
	}

	if meta.Notes != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Report generation error", err).WithOp("report")
	}
	return nil
}

func banner(pdf *gofpdf.Fpdf, label string, s ber.Scenario) {
	r, g, b := hexRGB(s.Color)
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(40, 12, s.Band.String(), "", 0, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 12, fmt.Sprintf("  %s: %.1f kWh/m2a", label, s.KWhPerM2), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}

func rows(pdf *gofpdf.Fpdf, kv [][2]string) {
	for _, row := range kv {
		pdf.CellFormat(60, 6, row[0], "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "B", 1, "L", false, 0, "")
	}
}

func num(v float64, unit string) string {
	return fmt.Sprintf("%.1f %s", v, unit)
}

// hexRGB parses "#RRGGBB"; anything else yields grey.
func hexRGB(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
