package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikolaydubina/go-force-tree/config"
	"github.com/nikolaydubina/go-force-tree/force"
	"github.com/nikolaydubina/go-force-tree/interaction"
	"github.com/nikolaydubina/go-force-tree/layout"
	"github.com/nikolaydubina/go-force-tree/render"
)

const progressEvery = time.Second

func snapshotCmd(g *globals) *cobra.Command {
	var (
		output    string
		ticks     int
		interval  time.Duration
		collapsed []string
		frames    string
		labels    bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Run simulation headless and write frame as SVG or PNG",
		Example: "  forcetree snapshot flare.json -o flare.svg\n" +
			"  forcetree snapshot flare.json -o flare.png --collapse analytics,vis --ticks 120",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.cleanup()
			if labels {
				e.cfg.Canvas.Labels = true
			}

			m, err := e.loadModel(args[0])
			if err != nil {
				return err
			}
			sim := e.cfg.NewSimulation()
			ctrl := e.newController(m, sim)
			if err := collapse(ctrl, collapsed); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			n := 0
			var frameErr error
			sim.OnTick(func() {
				n++
				if frames != "" && frameErr == nil {
					path := filepath.Join(frames, fmt.Sprintf("frame-%05d%s", n, filepath.Ext(output)))
					frameErr = render.Save(path, frame(ctrl, e.cfg), options(e.cfg))
				}
				if frameErr != nil || (ticks > 0 && n >= ticks) {
					sim.Stop()
					cancel()
				}
			})
			sim.OnEnd(cancel)

			loop := force.NewLoop(sim, interval)
			go progress(ctx, loop, e)

			start := time.Now()
			if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if frameErr != nil {
				return fmt.Errorf("writing frame: %w", frameErr)
			}
			if err := cmd.Context().Err(); err != nil {
				e.logger.Warn("interrupted, writing last frame", "ticks", n)
			}

			if err := render.Save(output, frame(ctrl, e.cfg), options(e.cfg)); err != nil {
				return err
			}
			e.logger.Info("wrote snapshot", "path", output, "ticks", n, "alpha", sim.Alpha(), "nodes", len(ctrl.Nodes()), "duration", time.Since(start))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, .svg or .png")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "Stop after this many ticks, 0 runs until layout settles")
	cmd.Flags().DurationVar(&interval, "interval", time.Millisecond, "Time between ticks")
	cmd.Flags().StringSliceVar(&collapsed, "collapse", nil, "Collapse visible nodes with these names before running")
	cmd.Flags().StringVar(&frames, "frames", "", "Also write every tick as frame into this directory")
	cmd.Flags().BoolVar(&labels, "labels", false, "Draw node names")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// progress periodically reports state of running simulation.
func progress(ctx context.Context, loop *force.Loop, e env) {
	t := time.NewTicker(progressEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-loop.Done():
			return
		case <-t.C:
			var alpha float64
			var nodes int
			if !loop.Do(func() {
				alpha = loop.Simulation().Alpha()
				nodes = len(loop.Simulation().Nodes())
			}) {
				return
			}
			e.logger.Debug("simulating", "alpha", alpha, "nodes", nodes)
		}
	}
}

// frame is visible tree fitted into canvas. Small trees are not enlarged.
func frame(ctrl *interaction.Controller, cfg config.Config) layout.Graph {
	g := layout.NewGraph(ctrl.Nodes(), ctrl.Links())
	w, h := float64(cfg.Canvas.Width), float64(cfg.Canvas.Height)
	layout.Fit(g, w, h, 10, 1, 1).UpdateGraphLayout(g)
	return g
}

func options(cfg config.Config) render.Options {
	return render.Options{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height, Labels: cfg.Canvas.Labels}
}
