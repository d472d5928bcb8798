package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/marbles/physics"
)

// camY shifts world space up by the camera offset; the duel field fits the
// screen and passes 0.

func drawCircleBody(screen *ebiten.Image, b *physics.Body, camY float64, clr color.Color) {
	vector.FillCircle(screen, float32(b.Position.X), float32(b.Position.Y-camY), float32(b.Radius), clr, true)
}

func drawRectBody(screen *ebiten.Image, b *physics.Body, camY float64, clr color.Color) {
	vector.FillRect(screen,
		float32(b.Position.X-b.Width/2), float32(b.Position.Y-b.Height/2-camY),
		float32(b.Width), float32(b.Height), clr, false)
}

func drawDebugOverlay(screen *ebiten.Image, w *physics.World, camY float64) {
	w.ForEach(func(_ physics.Handle, b *physics.Body) {
		outline := color.RGBA{R: 255, G: 0, B: 0, A: 200}
		if b.Kind == physics.ShapeRect {
			vector.StrokeRect(screen,
				float32(b.Position.X-b.Width/2), float32(b.Position.Y-b.Height/2-camY),
				float32(b.Width), float32(b.Height), 1.0, outline, false)
		} else {
			vector.StrokeCircle(screen, float32(b.Position.X), float32(b.Position.Y-camY), float32(b.Radius), 1.0, outline, false)
		}
		if !b.Static && b.Velocity.LengthSq() > 0 {
			tip := b.Position.Add(b.Velocity.Mult(0.2))
			vector.StrokeLine(screen,
				float32(b.Position.X), float32(b.Position.Y-camY),
				float32(tip.X), float32(tip.Y-camY), 1.0, color.RGBA{R: 255, G: 255, B: 0, A: 200}, false)
		}
	})
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  bodies: %d", ebiten.ActualFPS(), w.Len()), 8, 620)
}
