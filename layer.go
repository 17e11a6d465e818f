package boardfx

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Layer names, in default z-order.
const (
	LayerBackground = "background"
	LayerMap        = "map"
	LayerBuildings  = "buildings"
	LayerPlayers    = "players"
	LayerEffects    = "effects"
	LayerUI         = "ui"
)

// RenderLayer is a named, z-ordered rendering pass. The set of layers is
// fixed when the Engine is built; only Visible changes at runtime.
type RenderLayer struct {
	Name    string
	Z       int
	Visible bool
}

// LayerRenderer draws one layer. It is called between Surface.Save and
// Surface.Restore, so it may change alpha and transform freely.
type LayerRenderer func(e *Engine, s Surface)

type layerEntry struct {
	RenderLayer
	render LayerRenderer
}

func defaultLayers() []RenderLayer {
	return []RenderLayer{
		{Name: LayerBackground, Z: 0, Visible: true},
		{Name: LayerMap, Z: 10, Visible: true},
		{Name: LayerBuildings, Z: 20, Visible: true},
		{Name: LayerPlayers, Z: 30, Visible: true},
		{Name: LayerEffects, Z: 40, Visible: true},
		{Name: LayerUI, Z: 50, Visible: true},
	}
}

func isDefaultLayer(name string) bool {
	for _, l := range defaultLayers() {
		if l.Name == name {
			return true
		}
	}
	return false
}

// compositor renders layers in ascending Z. Entries are sorted once at
// construction.
type compositor struct {
	layers []*layerEntry
	log    *zap.Logger
}

func newCompositor(renderers map[string]LayerRenderer, log *zap.Logger) *compositor {
	c := &compositor{log: log}
	for _, l := range defaultLayers() {
		c.layers = append(c.layers, &layerEntry{RenderLayer: l, render: renderers[l.Name]})
	}
	sort.SliceStable(c.layers, func(i, j int) bool {
		return c.layers[i].Z < c.layers[j].Z
	})
	return c
}

func (c *compositor) find(name string) *layerEntry {
	for _, l := range c.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// render draws every visible layer. A panicking renderer is logged and
// skipped for this frame; later layers still draw.
func (c *compositor) render(e *Engine, s Surface) (drawn int) {
	for _, l := range c.layers {
		if !l.Visible || l.render == nil {
			continue
		}
		if err := c.renderLayer(l, e, s); err != nil {
			c.log.Error("layer render failed", zap.String("layer", l.Name), zap.Error(err))
			continue
		}
		drawn++
	}
	return drawn
}

func (c *compositor) renderLayer(l *layerEntry, e *Engine, s Surface) (err error) {
	s.Save()
	defer func() {
		s.Restore()
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	l.render(e, s)
	return nil
}
