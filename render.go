package boardfx

import (
	"fmt"
	"math"
	"strings"
)

var (
	defaultBackground = Color{0.08, 0.09, 0.12, 1}
	defaultTileA      = Color{0.22, 0.42, 0.25, 1}
	defaultTileB      = Color{0.25, 0.47, 0.28, 1}
	defaultBuilding   = Color{0.55, 0.45, 0.35, 1}
	hudBackground     = Color{0, 0, 0, 0.6}
)

// tokenPalette colors player tokens by their order in the world view.
var tokenPalette = []Color{
	{0.95, 0.3, 0.3, 1},
	{0.3, 0.55, 0.95, 1},
	{0.95, 0.8, 0.25, 1},
	{0.6, 0.35, 0.85, 1},
}

func defaultRenderers() map[string]LayerRenderer {
	return map[string]LayerRenderer{
		LayerBackground: renderBackground,
		LayerMap:        renderMap,
		LayerBuildings:  renderBuildings,
		LayerPlayers:    renderPlayers,
		LayerEffects:    renderEffects,
		LayerUI:         renderUI,
	}
}

// AnimationIDForPlayer is the animation id the players layer looks up to
// pick a token sprite frame.
func AnimationIDForPlayer(playerID string) string {
	return "player:" + playerID
}

// SpriteIDForPlayer is the sprite id used for a player token when no
// animation is registered for it.
func SpriteIDForPlayer(playerID string) string {
	return "token:" + playerID
}

func renderBackground(e *Engine, s Surface) {
	w, h := s.Size()
	bg := e.board.Background
	if bg.IsZero() {
		bg = defaultBackground
	}
	s.FillRect(Rect{0, 0, float64(w), float64(h)}, bg)
}

func renderMap(e *Engine, s Surface) {
	b := e.board
	a, c := b.TileA, b.TileB
	if a.IsZero() {
		a = defaultTileA
	}
	if c.IsZero() {
		c = defaultTileB
	}
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			tile := a
			if (row+col)%2 == 1 {
				tile = c
			}
			s.FillRect(e.cfg.Grid.CellRect(GridPos{col, row}), tile)
		}
	}
}

func renderBuildings(e *Engine, s Surface) {
	g := e.cfg.Grid
	for _, b := range e.board.Buildings {
		cols, rows := max(b.Width, 1), max(b.Height, 1)
		r := g.CellRect(b.Pos)
		r.Width = float64(cols) * g.CellSize
		r.Height = float64(rows) * g.CellSize
		r = r.Inset(g.CellSize * 0.06)

		col := b.Color
		if col.IsZero() {
			col = defaultBuilding
		}
		label := b.Name
		if label == "" {
			label = b.ID
		}
		DrawSprite(s, e.sprites, b.SpriteID, r, col, label)
	}
}

func renderPlayers(e *Engine, s Surface) {
	if e.world == nil {
		return
	}
	snap, ok := e.detector.Previous()
	if !ok {
		return
	}
	size := e.cfg.Grid.CellSize * 0.5
	for i, p := range snap.Players {
		pos, ok := e.PlayerPosition(p.ID)
		if !ok {
			continue
		}
		// Spread tokens sharing a cell so they stay visible.
		pos.X += (float64(i%2) - 0.5) * size * 0.5
		pos.Y += (float64(i/2%2) - 0.5) * size * 0.5

		col := tokenPalette[i%len(tokenPalette)]
		frame, animated := e.animations.CurrentFrame(AnimationIDForPlayer(p.ID))
		spriteID := SpriteIDForPlayer(p.ID)
		if animated {
			spriteID = frame.SpriteID
		}

		s.Save()
		s.Translate(pos.X, pos.Y)
		if animated {
			s.Translate(frame.OffsetX, frame.OffsetY)
			s.Rotate(frame.Rotation)
			s.SetAlpha(frame.EffectiveOpacity())
		}
		sz := size
		if animated {
			sz *= frame.EffectiveScale()
		}
		DrawSprite(s, e.sprites, spriteID, Rect{-sz / 2, -sz / 2, sz, sz}, col, initial(p.ID))
		s.Restore()
	}
}

func renderEffects(e *Engine, s Surface) {
	e.effects.Draw(s, e.cfg.Grid, e.clock)
	e.particles.Draw(s)
}

func renderUI(e *Engine, s Surface) {
	w, _ := s.Size()
	bar := Rect{0, 0, float64(w), 32}
	s.FillRect(bar, hudBackground)
	if e.cfg.Debug {
		drawFPS(e, s)
	}
	if e.world == nil {
		return
	}
	snap, ok := e.detector.Previous()
	if !ok {
		return
	}
	s.DrawText(fmt.Sprintf("Week %d", snap.Week), 12, 16, TextStyle{
		Size: 14, Color: ColorWhite, Baseline: TextBaselineMiddle,
	})
	s.DrawText(fmt.Sprintf("Time %d", int(math.Ceil(snap.TimeRemaining))), 110, 16, TextStyle{
		Size: 14, Color: ColorWhite, Baseline: TextBaselineMiddle,
	})

	x := float64(w) - 12
	for i := len(snap.Players) - 1; i >= 0; i-- {
		p := snap.Players[i]
		cash := float64(p.Cash)
		if v, ok := e.CashDisplay(p.ID); ok {
			cash = v
		}
		label := fmt.Sprintf("%s $%d", initial(p.ID), int(math.Round(cash)))
		s.DrawText(label, x, 16, TextStyle{
			Size:     14,
			Color:    tokenPalette[i%len(tokenPalette)],
			Align:    TextAlignRight,
			Baseline: TextBaselineMiddle,
		})
		x -= 110
	}
}

// DrawSprite draws the sprite resolved from src into dst. When the source is
// nil or has no image for id, it draws a placeholder: a filled rectangle in
// fallback with label centered on it. A nil surface is a no-op.
func DrawSprite(s Surface, src SpriteSource, id string, dst Rect, fallback Color, label string) {
	if s == nil {
		return
	}
	if src != nil && id != "" {
		if img := src.Sprite(id); img != nil {
			s.DrawImage(img, dst)
			return
		}
	}
	s.FillRect(dst, fallback)
	s.StrokeRect(dst, 1, fallback.WithAlpha(0.5))
	if label != "" {
		c := dst.Center()
		s.DrawText(label, c.X, c.Y, TextStyle{
			Size:     math.Min(14, dst.Height/2),
			Color:    ColorWhite,
			Align:    TextAlignCenter,
			Baseline: TextBaselineMiddle,
		})
	}
}

func initial(id string) string {
	if id == "" {
		return "?"
	}
	r := []rune(id)
	return strings.ToUpper(string(r[0]))
}
