package main

import (
	"os"

	"BERTool/internal/calc/premium/batch"
	"BERTool/internal/calc/retrofit"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ber",
		Short:        "Building energy rating and heating demand calculator",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(manualCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(tablesCmd())
	return rootCmd
}

type manualFlags struct {
	length, width, storeyHeight float64
	storeys                     int
	buildingType, epoch         string
	country, heating            string
	hwElectric                  bool
	residents                   float64

	retrofit     bool
	wallCM       float64
	roofCM       float64
	windowU      float64
	heatingAfter string
	hwAfter      bool

	asJSON       bool
	pdfPath      string
	project      string
	pef          float64
	pefProfile   string
	correctedVol bool
}

func manualCmd() *cobra.Command {
	var f manualFlags

	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Rate one building described by flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runManual(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.length, "length", 0, "building length in m")
	fl.Float64Var(&f.width, "width", 0, "building width in m")
	fl.IntVar(&f.storeys, "storeys", 2, "heated storeys")
	fl.Float64Var(&f.storeyHeight, "storey-height", 3.0, "storey height in m")
	fl.StringVar(&f.buildingType, "type", "detached", "building type")
	fl.StringVar(&f.epoch, "epoch", "before_1980", "construction epoch")
	fl.StringVar(&f.country, "country", "ireland", "country")
	fl.StringVar(&f.heating, "heating", "gas_boiler", "heating system")
	fl.BoolVar(&f.hwElectric, "hw-electric", false, "hot water from a separate electric heater")
	fl.Float64Var(&f.residents, "residents", 0, "number of residents (default: gross area / 52, at least 1)")

	fl.BoolVar(&f.retrofit, "retrofit", false, "also rate a retrofit scenario")
	fl.Float64Var(&f.wallCM, "wall-cm", retrofit.DefaultWallInsulationCM, "retrofit wall insulation in cm")
	fl.Float64Var(&f.roofCM, "roof-cm", retrofit.DefaultRoofInsulationCM, "retrofit roof insulation in cm")
	fl.Float64Var(&f.windowU, "window-u", retrofit.DefaultWindowU, "retrofit window U-value (0 keeps the windows)")
	fl.StringVar(&f.heatingAfter, "heating-after", "", "heating system after the retrofit")
	fl.BoolVar(&f.hwAfter, "hw-electric-after", false, "separate electric hot water after the retrofit")

	fl.BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	fl.StringVar(&f.pdfPath, "pdf", "", "write a PDF report to this path")
	fl.StringVar(&f.project, "project", "", "project name for the PDF report")
	fl.Float64Var(&f.pef, "pef", 0, "primary energy factor for all systems (default 1.0)")
	fl.StringVar(&f.pefProfile, "pef-profile", "", `primary energy factor profile ("seai")`)
	fl.BoolVar(&f.correctedVol, "corrected-volume", false, "count the storey multiplier once in the heated volume")

	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("width")
	return cmd
}

func importCmd() *cobra.Command {
	var out string
	var asJSON bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Rate every building row of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], out, asJSON, concurrency)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write results to this workbook")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultConcurrency, "parallel calculations")
	return cmd
}

func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the coefficient, climate, system and band tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printTables(cmd.OutOrStdout())
		},
	}
}
