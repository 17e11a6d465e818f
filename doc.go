// Package boardfx is the animation and effects layer for a turn-based 2D
// board game, rendered with [Ebitengine] or into a terminal.
//
// An [Engine] owns a drawing [Surface], a [FrameScheduler] and a set of
// per-frame components. Every frame it advances the components by the time
// since the previous frame, then draws the layers in Z order onto the surface.
//
//	host := boardfx.NewEbitenHost(800, 600)
//	engine, err := boardfx.NewEngine(host.Surface(), host, boardfx.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	host.Attach(engine)
//	engine.Start()
//	boardfx.Run(host, boardfx.RunConfig{Title: "Town", Width: 800, Height: 600})
//
// # Components
//
// All times are milliseconds.
//
//   - [TweenScheduler] interpolates points with an [Easing] curve.
//   - [AnimationPlayer] steps frame-based sprite animations. Sheets can be
//     loaded from YAML with [LoadAnimations].
//   - [ParticleSystem] runs short-lived particles under gravity, including the
//     floating "+$N" labels from [ParticleSystem.CreateMoneyEffect].
//   - [EffectSystem] runs sparkle, pulse and glow effects and holds the
//     persistent cell highlights.
//
// # Game state
//
// The game calls [Engine.OnGameStateChange] whenever its state may have
// changed. A [ChangeDetector] compares the new [WorldSnapshot] with the
// previous one and turns player moves, cash changes and stat changes into
// glides, money labels and sparkles.
//
// # Layers
//
// Six named layers are drawn bottom to top: background, map, buildings,
// players, effects and ui. Layers can be hidden with [Engine.SetLayerVisible]
// and redrawn with [Engine.SetLayerRenderer].
//
// # Assets and input
//
// Sprites resolve through a [SpriteSource]; an [Atlas] loaded from a
// TexturePacker sheet is one. Missing sprites draw as labeled placeholders.
// [LoadFont] replaces the built-in bitmap face on an [EbitenSurface].
//
// [PointerInput] turns pointer samples into cell clicks and hovers. The
// [EbitenHost] feeds it from the mouse and touch screen, and a
// [ScriptRunner] can drive it with injected clicks and capture screenshots
// for automated visual checks.
//
// [Ebitengine]: https://ebitengine.org
package boardfx
