// Package interaction turns clicks and drags on nodes into changes of tree and simulation.
//
// Controller expects single owner: gestures must not run concurrently with ticks.
// Gestures for nodes that are not visible anymore are ignored.
package interaction

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/nikolaydubina/go-force-tree/force"
	"github.com/nikolaydubina/go-force-tree/hierarchy"
)

const (
	// DefaultDragAlphaTarget keeps simulation warm while any node is dragged.
	DefaultDragAlphaTarget = 0.3
	restartAlpha           = 1
)

// Engine is part of simulation that controller drives.
type Engine interface {
	SetNodes(nodes []*force.Body)
	SetLinks(links []force.Link) error
	SetAlpha(v float64)
	SetAlphaTarget(v float64)
	Restart()
}

// Option configures Controller.
type Option func(*Controller)

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

func WithDragAlphaTarget(v float64) Option { return func(c *Controller) { c.dragAlphaTarget = v } }

// Controller owns tree model and feeds its visible part into simulation.
type Controller struct {
	model  *hierarchy.Model
	engine Engine
	logger *slog.Logger

	dragAlphaTarget float64
	dragging        map[hierarchy.NodeID]*hierarchy.Node
	nodes           []*hierarchy.Node
	links           []hierarchy.Link
}

// New makes controller and loads visible nodes of model into engine.
func New(model *hierarchy.Model, engine Engine, opts ...Option) *Controller {
	c := &Controller{
		model:           model,
		engine:          engine,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		dragAlphaTarget: DefaultDragAlphaTarget,
		dragging:        make(map[hierarchy.NodeID]*hierarchy.Node),
	}
	for _, o := range opts {
		o(c)
	}
	c.sync()
	return c
}

// Model is current tree.
func (c *Controller) Model() *hierarchy.Model { return c.model }

// Nodes are visible nodes as of last structural change, in flatten order.
func (c *Controller) Nodes() []*hierarchy.Node { return c.nodes }

// Links are visible links as of last structural change.
func (c *Controller) Links() []hierarchy.Link { return c.links }

// Dragging tells how many nodes are being dragged.
func (c *Controller) Dragging() int { return len(c.dragging) }

// sync flattens tree and replaces working set of engine.
func (c *Controller) sync() {
	nodes, bodies, links := c.model.Snapshot()
	c.nodes = nodes
	c.links = slices.Collect(c.model.Links())

	c.engine.SetNodes(bodies)
	if err := c.engine.SetLinks(links); err != nil {
		// links are derived from the same flatten as nodes
		panic(fmt.Errorf("visible links do not match visible nodes: %w", err))
	}
}

// Reload replaces tree and restarts simulation. Drags in progress are dropped.
func (c *Controller) Reload(model *hierarchy.Model) {
	for id, n := range c.dragging {
		n.Unpin()
		delete(c.dragging, id)
	}
	c.model = model
	c.sync()
	c.engine.SetAlphaTarget(0)
	c.engine.SetAlpha(restartAlpha)
	c.engine.Restart()
	c.logger.Info("hierarchy reloaded", "nodes", len(c.nodes), "links", len(c.links))
}

// Click collapses or expands node and restarts simulation on new visible tree.
func (c *Controller) Click(id hierarchy.NodeID) bool {
	n, ok := c.model.Find(id)
	if !ok {
		c.logger.Debug("ignoring click on node that is not visible", "id", id)
		return false
	}

	state := hierarchy.Toggle(n)
	c.sync()
	c.engine.SetAlpha(restartAlpha)
	c.engine.Restart()

	c.logger.Debug("toggled node", "id", id, "name", n.Name, "state", state, "nodes", len(c.nodes))
	return true
}

// DragStart pins node at its current position.
// First drag warms up simulation so that other nodes follow.
func (c *Controller) DragStart(id hierarchy.NodeID) bool {
	n, ok := c.model.Find(id)
	if !ok {
		c.logger.Debug("ignoring drag start on node that is not visible", "id", id)
		return false
	}
	if len(c.dragging) == 0 {
		c.engine.SetAlphaTarget(c.dragAlphaTarget)
		c.engine.Restart()
	}
	c.dragging[id] = n
	n.Pin(n.X, n.Y)
	return true
}

// DragMove pins dragged node at pointer position.
func (c *Controller) DragMove(id hierarchy.NodeID, x, y float64) bool {
	n, ok := c.dragging[id]
	if !ok {
		c.logger.Debug("ignoring drag move without drag start", "id", id)
		return false
	}
	if _, visible := c.model.Find(id); !visible {
		c.logger.Debug("ignoring drag move on node that is not visible", "id", id)
		return false
	}
	n.Pin(x, y)
	return true
}

// DragEnd releases node. When last drag ends simulation cools down on its own.
func (c *Controller) DragEnd(id hierarchy.NodeID) bool {
	n, ok := c.dragging[id]
	if !ok {
		c.logger.Debug("ignoring drag end without drag start", "id", id)
		return false
	}
	delete(c.dragging, id)
	n.Unpin()
	if len(c.dragging) == 0 {
		c.engine.SetAlphaTarget(0)
	}
	return true
}
