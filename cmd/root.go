// cmd/root.go
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adas-hsched/hsched/sim"
	"github.com/adas-hsched/hsched/sim/ingest"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "hsched",
	Short: "Schedulability analyzer and discrete-event simulator for hierarchical ADAS scheduling",
}

// Execute is the CLI entry point invoked by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	cobra.OnInitialize(func() {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	})
}

// loadModel dispatches on path's extension to the matching sim/ingest loader:
// .yaml/.yml as YAML, .csv/.txt as a CSV task table, and anything else
// (including .json) as JSON.
func loadModel(path string) (*sim.SystemModel, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ingest.LoadYAMLFile(path)
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ingest.LoadCSV(f)
	default:
		return ingest.LoadJSONFile(path)
	}
}
