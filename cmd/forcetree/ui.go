package main

import (
	"github.com/fatih/color"

	"github.com/nikolaydubina/go-force-tree/hierarchy"
)

var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Info   = color.New(color.FgCyan)
	Bad    = color.New(color.FgRed)

	stateColors = map[hierarchy.State]*color.Color{
		hierarchy.Collapsed: color.New(color.FgBlue, color.Bold),
		hierarchy.Expanded:  color.New(color.FgHiCyan),
		hierarchy.Leaf:      color.New(color.FgYellow),
	}
)
