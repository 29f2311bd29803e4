package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/premium/batch"
	"BERTool/internal/calc/premium/importer"
	"BERTool/internal/calc/report"
	"BERTool/internal/calc/retrofit"
	"BERTool/internal/calc/tables"

	"github.com/spf13/cobra"
)

func engineOptions(f manualFlags) (ber.Options, error) {
	opts := ber.Options{PrimaryEnergyFactor: f.pef, CorrectedVolume: f.correctedVol}
	switch strings.ToLower(f.pefProfile) {
	case "":
	case "seai":
		opts.PrimaryEnergyFactors = tables.SEAIPrimaryEnergyFactors
	default:
		return ber.Options{}, fmt.Errorf("unknown primary energy profile %q", f.pefProfile)
	}
	return opts, nil
}

func buildingFromFlags(cmd *cobra.Command, f manualFlags) (ber.BuildingInput, error) {
	b := ber.BuildingInput{
		LengthM:          f.length,
		WidthM:           f.width,
		Storeys:          f.storeys,
		StoreyHeightM:    f.storeyHeight,
		HotWaterElectric: f.hwElectric,
	}
	var err error
	if b.Type, err = tables.ParseBuildingType(f.buildingType); err != nil {
		return b, err
	}
	if b.Epoch, err = tables.ParseEpoch(f.epoch); err != nil {
		return b, err
	}
	if b.Country, err = tables.ParseCountry(f.country); err != nil {
		return b, err
	}
	if b.Heating, err = tables.ParseHeatingSystem(f.heating); err != nil {
		return b, err
	}
	if cmd.Flags().Changed("residents") {
		r := f.residents
		b.Residents = &r
	}
	return b, nil
}

func retrofitFromFlags(f manualFlags) (*retrofit.Input, error) {
	if !f.retrofit {
		return nil, nil
	}
	in := retrofit.Input{
		WallInsulationCM:      f.wallCM,
		RoofInsulationCM:      f.roofCM,
		WindowU:               f.windowU,
		HotWaterElectricAfter: f.hwAfter,
	}
	if f.heatingAfter != "" {
		h, err := tables.ParseHeatingSystem(f.heatingAfter)
		if err != nil {
			return nil, err
		}
		in.HeatingAfter = &h
	}
	return &in, nil
}

func runManual(cmd *cobra.Command, f manualFlags) error {
	b, err := buildingFromFlags(cmd, f)
	if err != nil {
		return err
	}
	rf, err := retrofitFromFlags(f)
	if err != nil {
		return err
	}
	opts, err := engineOptions(f)
	if err != nil {
		return err
	}

	res, err := ber.New(opts).CalculateBER(b, rf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResult(out, res)
	}

	if f.pdfPath != "" {
		if err := writeReport(f.pdfPath, res, report.Meta{Project: f.project}); err != nil {
			return err
		}
		if !f.asJSON {
			fmt.Fprintf(out, "\nReport written to %s\n", f.pdfPath)
		}
	}
	return nil
}

var renderReport = report.Render

// writeReport renders the PDF to path. A failed render leaves no file behind.
func writeReport(path string, res ber.Result, meta report.Meta) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	err = renderReport(file, res, meta, time.Now())
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func runImport(cmd *cobra.Command, path, outPath string, asJSON bool, concurrency int) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer file.Close()

	rows, skipped, err := importer.Read(file)
	if err != nil {
		return err
	}
	calc := ber.New(ber.Options{})
	items := make([]ber.Request, len(rows))
	for i, r := range rows {
		items[i] = r.Request
	}
	res := batch.Result{}
	if len(items) > 0 {
		res, err = batch.Calculate(context.Background(), calc, batch.Input{Items: items, Concurrency: concurrency})
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(importer.ImportResult{Count: len(rows), Rows: rows, Skipped: skipped, Results: res}); err != nil {
			return err
		}
	} else {
		printImport(out, rows, skipped, res)
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating workbook: %w", err)
		}
		defer f.Close()
		if err := importer.Write(f, rows, res); err != nil {
			return err
		}
		if !asJSON {
			fmt.Fprintf(out, "\nResults written to %s\n", outPath)
		}
	}
	if len(rows) == 0 {
		return fmt.Errorf("no rows rated")
	}
	if res.Failed > 0 || len(skipped) > 0 {
		return fmt.Errorf("%d of %d rows failed", res.Failed+len(skipped), len(rows)+len(skipped))
	}
	return nil
}
