package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nikolaydubina/go-force-tree/config"
	"github.com/nikolaydubina/go-force-tree/hierarchy"
	"github.com/nikolaydubina/go-force-tree/interaction"
	"github.com/nikolaydubina/go-force-tree/internal/logging"
)

var version = "0.1.0"

// globals are persistent flags shared by all commands.
type globals struct {
	configPath string
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	var g globals

	cmd := &cobra.Command{
		Use:   "forcetree",
		Short: "forcetree — collapsible force-directed tree",
		Long: Brand.Sprint("forcetree") + " — lay out hierarchy with force simulation, click nodes to collapse them\n" +
			Subtle.Sprint("Hierarchy is nested JSON {name, size, children} or JSONL graph"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("forcetree {{ .Version }}\n")
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to YAML config")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Also write logs to this file (overrides config)")

	cmd.AddCommand(
		viewCmd(&g),
		snapshotCmd(&g),
		flattenCmd(&g),
	)

	return cmd
}

// env is what every command needs before it starts.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	cleanup func()
}

func (g *globals) setup(console io.Writer) (env, error) {
	cfg, err := config.LoadFrom(g.configPath)
	if err != nil {
		return env{}, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFile != "" {
		cfg.Log.File = g.logFile
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return env{}, err
	}
	logger, cleanup, err := logging.Setup(cfg.Log.File, level, console)
	if err != nil {
		return env{}, fmt.Errorf("setting up logs: %w", err)
	}
	return env{cfg: cfg, logger: logger, cleanup: cleanup}, nil
}

func (e env) loadModel(path string) (*hierarchy.Model, error) {
	root, err := hierarchy.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	m := hierarchy.NewModel(root)
	e.logger.Info("loaded hierarchy", "path", path, "root", root.Name)
	return m, nil
}

func (e env) newController(m *hierarchy.Model, engine interaction.Engine) *interaction.Controller {
	return interaction.New(m, engine,
		interaction.WithLogger(e.logger),
		interaction.WithDragAlphaTarget(e.cfg.Simulation.DragAlphaTarget),
	)
}

// collapse toggles visible nodes with given names, in order.
func collapse(ctrl *interaction.Controller, names []string) error {
	for _, name := range names {
		n, ok := ctrl.Model().FindByName(name)
		if !ok {
			return fmt.Errorf("no visible node named %q", name)
		}
		ctrl.Click(n.ID)
	}
	return nil
}
