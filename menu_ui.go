package main

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/marbles/common"
)

// The menus use colored nine-slices and the built-in basic font, so no theme
// assets have to load before the first frame.

type menuUI struct {
	g  *Game
	ui *ebitenui.UI
}

type pauseUI struct {
	g  *Game
	ui *ebitenui.UI
}

func uiFace() ebtext.Face {
	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	return goFace
}

func uiButton(label string, face *ebtext.Face, onClick func()) *widget.Button {
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text(label, face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func uiPanel(children ...widget.PreferredSizeLocateableWidget) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	for _, child := range children {
		panel.AddChild(child)
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

func newMenuUI(g *Game) *menuUI {
	face := uiFace()

	title := widget.NewText(
		widget.TextOpts.Text("marbles", &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	m := &menuUI{g: g}
	m.ui = uiPanel(
		title,
		uiButton("Duel", &face, g.StartDuel),
		uiButton("Race", &face, g.StartRace),
		uiButton("Quit", &face, func() { g.quit = true }),
	)
	return m
}

func (m *menuUI) Update() {
	m.ui.Update()
}

func (m *menuUI) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x1a, G: 0x24, B: 0x30, A: 0xff})
	m.ui.Draw(screen)
	msg := fmt.Sprintf("Coins: %d    Grade: %d", m.g.profile.Coins, m.g.profile.Grade)
	drawHUD(screen, msg, 8, 8)
}

func newPauseUI(g *Game) *pauseUI {
	face := uiFace()

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	p := &pauseUI{g: g}
	p.ui = uiPanel(
		title,
		uiButton("Resume", &face, func() { g.paused = false }),
		uiButton("Main Menu", &face, g.ToMenu),
	)
	return p
}

func (p *pauseUI) Update() {
	p.ui.Update()
}

func (p *pauseUI) Draw(screen *ebiten.Image) {
	p.ui.Draw(screen)
}
