package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func drawHUD(screen *ebiten.Image, msg string, x, y int) {
	ebitenutil.DebugPrintAt(screen, msg, x, y)
}
