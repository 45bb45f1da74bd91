package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikolaydubina/go-force-tree/hierarchy"
)

func flattenCmd(g *globals) *cobra.Command {
	var collapsed []string

	cmd := &cobra.Command{
		Use:   "flatten <file>",
		Short: "Print visible nodes in post-order with their ids and links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.cleanup()

			m, err := e.loadModel(args[0])
			if err != nil {
				return err
			}
			for _, name := range collapsed {
				n, ok := m.FindByName(name)
				if !ok {
					return fmt.Errorf("no visible node named %q", name)
				}
				hierarchy.Toggle(n)
			}

			w := cmd.OutOrStdout()
			nodes := m.Nodes()
			Subtle.Fprintf(w, "  %4s  %-24s  %s\n", "id", "name", "state")
			for _, n := range nodes {
				fmt.Fprintf(w, "  %4d  %-24s  %s\n", n.ID, n.Name, stateColors[n.State()].Sprint(n.State()))
			}

			fmt.Fprintln(w)
			count := 0
			for l := range m.Links() {
				fmt.Fprintf(w, "  %4d %s %d\n", l.Source.ID, Subtle.Sprint("→"), l.Target.ID)
				count++
			}
			fmt.Fprintf(w, "\n  %s nodes, %s links\n", Info.Sprint(len(nodes)), Info.Sprint(count))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&collapsed, "collapse", nil, "Collapse visible nodes with these names first")
	return cmd
}
