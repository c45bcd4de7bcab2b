package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adas-hsched/hsched/sim"
	"github.com/adas-hsched/hsched/sim/ingest"
)

var (
	convertInputPath string
	convertOutputFmt string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a system model (JSON, YAML, or CSV) to JSON or YAML",
	Long:  "Convert a system model file (.json, .yaml, or .csv) into JSON or YAML on stdout. CSV is read-only: a CSV task table can be converted to JSON/YAML, but a component tree with synthesized BDR interfaces cannot be flattened back to a CSV task table.",
	Run: func(cmd *cobra.Command, args []string) {
		model, err := loadModel(convertInputPath)
		if err != nil {
			logrus.Fatalf("failed to load model: %v", err)
		}
		writeModel(model, convertOutputFmt)
	},
}

func writeModel(model *sim.SystemModel, format string) {
	switch format {
	case "yaml", "yml":
		if err := ingest.WriteYAML(os.Stdout, model); err != nil {
			logrus.Fatalf("yaml marshal failed: %v", err)
		}
	case "json":
		if err := ingest.WriteJSON(os.Stdout, model); err != nil {
			logrus.Fatalf("json marshal failed: %v", err)
		}
	default:
		logrus.Fatalf("unsupported output format %q (want json or yaml)", format)
	}
}

func init() {
	convertCmd.Flags().StringVar(&convertInputPath, "in", "", "Path to the input system model (.json, .yaml, or .csv)")
	convertCmd.Flags().StringVar(&convertOutputFmt, "to", "json", "Output format: json or yaml")
	_ = convertCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(convertCmd)
}
