package main

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikolaydubina/go-force-tree/hierarchy"
	"github.com/nikolaydubina/go-force-tree/internal/watcher"
	"github.com/nikolaydubina/go-force-tree/tui"
)

func viewCmd(g *globals) *cobra.Command {
	var (
		labels bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Explore hierarchy in terminal, click to collapse, drag to move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// terminal is taken by the program, logs go only to file
			e, err := g.setup(io.Discard)
			if err != nil {
				return err
			}
			defer e.cleanup()
			if labels {
				e.cfg.Canvas.Labels = true
			}

			path := args[0]
			m, err := e.loadModel(path)
			if err != nil {
				return err
			}
			sim := e.cfg.NewSimulation()
			ctrl := e.newController(m, sim)
			load := func() (*hierarchy.Node, error) { return hierarchy.Load(path) }

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p := tea.NewProgram(
				tui.New(ctrl, sim, e.cfg, tui.WithLoader(load)),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)

			if watch {
				w, err := watcher.New(path, 0)
				if err != nil {
					return err
				}
				e.logger.Info("watching hierarchy", "path", w.Path())
				go w.Run(ctx,
					func() {
						root, err := load()
						if err != nil {
							e.logger.Warn("reload failed", "path", path, "error", err)
						}
						p.Send(tui.ReloadMsg{Root: root, Err: err})
					},
					func(err error) {
						e.logger.Warn("watch", "path", path, "error", err)
						if errors.Is(err, watcher.ErrFileRemoved) {
							p.Send(tui.ReloadMsg{Err: err})
						}
					},
				)
			}

			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&labels, "labels", false, "Show node names")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload hierarchy when file changes")
	return cmd
}
