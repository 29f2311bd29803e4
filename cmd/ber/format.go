package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/premium/batch"
	"BERTool/internal/calc/premium/importer"
	"BERTool/internal/calc/tables"
)

func printResult(w io.Writer, res ber.Result) {
	b := res.Building
	h := res.HWB
	fmt.Fprintf(w, "Building: %.2f m x %.2f m, %d storeys of %.2f m, %s, %s, %s, %s\n",
		b.LengthM, b.WidthM, b.Storeys, b.StoreyHeightM, b.Type, b.Epoch, b.Country, b.Heating)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Gross floor area\t%.1f m2\n", h.FloorAreaM2)
	fmt.Fprintf(tw, "Heated volume\t%.1f m3\n", h.HeatedVolumeM3)
	fmt.Fprintf(tw, "Transmission losses\t%.0f kWh/a\n", h.TransmissionLossKWh)
	fmt.Fprintf(tw, "Ventilation losses\t%.0f kWh/a\n", h.VentilationLossKWh)
	fmt.Fprintf(tw, "Internal gains\t%.0f kWh/a\n", h.InternalGainsKWh)
	fmt.Fprintf(tw, "Solar gains\t%.0f kWh/a\n", h.SolarGainsKWh)
	fmt.Fprintf(tw, "Heating demand\t%.0f kWh/a\n", h.HeatingDemandKWh)
	fmt.Fprintf(tw, "HWB\t%.1f kWh/m2a\n", h.HWB)
	fmt.Fprintf(tw, "Hot water\t%.0f kWh/a\n", h.HotWaterKWh)
	fmt.Fprintf(tw, "Final energy\t%.0f kWh/a\n", h.FinalEnergyKWh)
	fmt.Fprintf(tw, "Primary energy\t%.0f kWh/a\n", h.PrimaryEnergyKWh)
	fmt.Fprintf(tw, "CO2\t%.0f kg/a\n", h.CO2Kg)
	_ = tw.Flush()

	fmt.Fprintf(w, "\nRating: %s (%.1f kWh/m2a)\n", res.Band, res.KWhPerM2)
	if r := res.Retrofit; r != nil {
		fmt.Fprintf(w, "After retrofit: %s (%.1f kWh/m2a, HWB %.1f), improvement %.1f kWh/m2a\n",
			r.Band, r.KWhPerM2, r.HWB.HWB, res.Improvement())
	}
}

func printImport(w io.Writer, rows []importer.Row, skipped []importer.RowError, res batch.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tBAND\tKWH/M2\tHWB\tERROR")
	for i, item := range res.Results {
		line := rows[i].Line
		if item.Result == nil {
			fmt.Fprintf(tw, "%d\t-\t-\t-\t%s\n", line, item.Error)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t\n", line, item.Result.Band, item.Result.KWhPerM2, item.Result.HWB.HWB)
	}
	for _, s := range skipped {
		fmt.Fprintf(tw, "%d\t-\t-\t-\t%s\n", s.Line, s.Error)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d rated, %d failed, %d skipped\n", res.Succeeded, res.Failed, len(skipped))
}

func printTables(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "EPOCH\tU_WINDOW\tU_ROOF\tU_FLOOR\tU_WALL\tG")
	for _, e := range tables.Epochs {
		rec, err := tables.EpochCoefficients(e)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", e, rec.U.Window, rec.U.Roof, rec.U.Floor, rec.U.Wall, rec.GValue)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "COUNTRY\tHDD\tDAYS\tI_N\tI_E\tI_S\tI_W")
	for _, c := range tables.Countries {
		rec, err := tables.ClimateFor(c)
		if err != nil {
			return err
		}
		s := rec.Solar
		fmt.Fprintf(tw, "%s\t%.1f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n", c, rec.HeatingDegreeDays, rec.HeatingDays, s.North, s.East, s.South, s.West)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "SYSTEM\tEFFICIENCY\tCO2_KG/KWH")
	for _, h := range tables.HeatingSystems {
		rec, err := tables.SystemFor(h)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.4f\n", h, rec.Efficiency, rec.CO2KgPerKWh)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "BAND\tUP_TO_KWH/M2A\tCOLOR")
	for _, b := range tables.Bands() {
		fmt.Fprintf(tw, "%s\t%.0f\t%s\n", b.Band, b.UpperBound, b.Color)
	}
	return tw.Flush()
}
