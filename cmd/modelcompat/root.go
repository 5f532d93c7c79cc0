package main

import (
	"fmt"

	"github.com/hupe1980/modelcompat"
	"github.com/hupe1980/modelcompat/config"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// app carries the flags and the state built from them.
type app struct {
	configPath string
	output     string
	exportDir  string
	logLevel   string
	noAge      bool

	cfg    config.Config
	logger *modelcompat.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "modelcompat",
		Short: "Explore hardware model compatibility across catalog versions",
		Long: `modelcompat loads a catalog of versions and the list of hardware models
each version supports. It shows the models of one version, the models
supported by every version in a range, or the models dropped between two
versions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "modelcompat.yaml", "path to the YAML config file")
	flags.StringVarP(&a.output, "output", "o", outputText, "output format: text or json")
	flags.StringVar(&a.exportDir, "export", "", "also write the result as a JSON file into this directory")
	flags.StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	flags.BoolVar(&a.noAge, "no-age", false, "hide model ages")

	root.AddCommand(
		newVersionsCmd(a),
		newShowCmd(a),
		newIntersectCmd(a),
		newDiffCmd(a),
		newServeCmd(a),
		newCatalogCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.output != outputText && a.output != outputJSON {
		return fmt.Errorf("--output must be %s or %s, got %q", outputText, outputJSON, a.output)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.exportDir == "" {
		a.exportDir = cfg.Export.Dir
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
