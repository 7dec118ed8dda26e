package viewer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Arena-Sense/internal/arena"
	"github.com/Garsondee/Arena-Sense/internal/geom"
)

var palette = []color.RGBA{
	colornames.Tomato,
	colornames.Dodgerblue,
	colornames.Gold,
	colornames.Mediumorchid,
	colornames.Springgreen,
	colornames.Orange,
}

func playerColor(i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

func hitColor(h arena.HitType) color.RGBA {
	switch h {
	case arena.HitPlayer:
		return colornames.Red
	case arena.HitObject:
		return colornames.Lightskyblue
	}
	return colornames.Dimgray
}

// facingTip is the end of the short heading marker drawn on a character.
func facingTip(c *arena.Character) geom.Vec2 {
	return c.Location().Add(geom.Heading(c.Rotation()).Scale(c.Rect().W))
}

func drawGrid(dst *ebiten.Image, w, h, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	for x := 0; x <= w; x += spacing {
		vector.StrokeLine(dst, float32(x), 0, float32(x), float32(h), 1, c, false)
	}
	for y := 0; y <= h; y += spacing {
		vector.StrokeLine(dst, 0, float32(y), float32(w), float32(y), 1, c, false)
	}
}
