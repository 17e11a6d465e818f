package boardfx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// animationSheet is the YAML layout read by LoadAnimations.
//
//	animations:
//	  - id: player:alice
//	    loop: true
//	    frames:
//	      - {sprite: alice_walk_0, ms: 120}
//	      - {sprite: alice_walk_1, ms: 120, offset_y: -2}
type animationSheet struct {
	Animations []animationDef `yaml:"animations"`
}

type animationDef struct {
	ID     string     `yaml:"id"`
	Loop   bool       `yaml:"loop"`
	Frames []frameDef `yaml:"frames"`
}

type frameDef struct {
	Sprite   string  `yaml:"sprite"`
	Duration float64 `yaml:"ms"`
	OffsetX  float64 `yaml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y"`
	Scale    float64 `yaml:"scale"`
	Opacity  float64 `yaml:"opacity"`
	Rotation float64 `yaml:"rotation"`
}

// LoadAnimations parses a YAML animation sheet.
func LoadAnimations(data []byte) ([]Animation, error) {
	var sheet animationSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("parse animations: %w", err)
	}
	seen := make(map[string]bool, len(sheet.Animations))
	anims := make([]Animation, 0, len(sheet.Animations))
	for i, def := range sheet.Animations {
		if def.ID == "" {
			return nil, fmt.Errorf("parse animations: animation %d has no id", i)
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("parse animations: duplicate id %q", def.ID)
		}
		seen[def.ID] = true

		anim := Animation{ID: def.ID, Loop: def.Loop}
		for j, f := range def.Frames {
			if f.Sprite == "" {
				return nil, fmt.Errorf("parse animations: %s frame %d has no sprite", def.ID, j)
			}
			if f.Duration < 0 {
				return nil, fmt.Errorf("parse animations: %s frame %d has negative duration", def.ID, j)
			}
			anim.Frames = append(anim.Frames, Frame{
				SpriteID: f.Sprite,
				Duration: f.Duration,
				OffsetX:  f.OffsetX,
				OffsetY:  f.OffsetY,
				Scale:    f.Scale,
				Opacity:  f.Opacity,
				Rotation: f.Rotation,
			})
		}
		anims = append(anims, anim)
	}
	return anims, nil
}

// LoadAnimationFile reads and parses a YAML animation sheet from disk.
func LoadAnimationFile(path string) ([]Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read animations %s: %w", path, err)
	}
	return LoadAnimations(data)
}

// AddAll registers every animation in anims.
func (p *AnimationPlayer) AddAll(anims []Animation) {
	for _, a := range anims {
		p.Add(a)
	}
}
