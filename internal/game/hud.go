package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-morph/internal/config"
	"github.com/iburimskiy/particle-morph/internal/visual"
)

const helpLine = "Space play/pause  N/P next/prev  O open  drag: touch  R rain  G grip  B blast  right-drag orbit  [ ] particles  Q quit"

func progressBarRect() (x, y, w, h int) {
	h = config.ProgressHeight
	y = config.WindowHeight - config.SpectrumHeight - config.BarMargin - h - 30
	w = config.WindowWidth - 2*config.BarMargin
	x = config.BarMargin
	return x, y, w, h
}

// gradientQuad spans a w×h rectangle with top blending into bottom. Source
// coordinates address the center pixel of a 3×3 white image.
func gradientQuad(top, bottom visual.Color, w, h float32) [4]ebiten.Vertex {
	vertex := func(x, y float32, c visual.Color) ebiten.Vertex {
		return ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1.5, SrcY: 1.5,
			ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: 1,
		}
	}
	return [4]ebiten.Vertex{
		vertex(0, 0, top),
		vertex(w, 0, top),
		vertex(0, h, bottom),
		vertex(w, h, bottom),
	}
}

var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

// drawBackground paints a vertical gradient between the dimmed secondary and
// primary colors as a single quad.
func (g *Game) drawBackground(screen *ebiten.Image) {
	if g.white == nil {
		g.white = ebiten.NewImage(3, 3)
		g.white.Fill(color.White)
	}
	v := gradientQuad(g.sig.Colors[1].Scale(0.08), g.sig.Colors[0].Scale(0.03),
		float32(config.WindowWidth), float32(config.WindowHeight))
	screen.DrawTriangles(v[:], quadIndices, g.white, nil)
}

func (g *Game) drawAudioBar(screen *ebiten.Image) {
	if len(g.bands) == 0 {
		return
	}

	barHeight := config.SpectrumHeight
	barY := config.WindowHeight - barHeight - config.BarMargin
	barWidth := config.WindowWidth - 2*config.BarMargin
	barX := config.BarMargin
	segmentWidth := float64(barWidth) / float64(len(g.bands))

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 20, G: 25, B: 35, A: 160}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	colorPhase := g.sig.Time * 0.02
	for i, level := range g.bands {
		segmentX := float64(barX) + float64(i)*segmentWidth
		segmentHeight := level * float64(barHeight-10)
		if segmentHeight < 2 {
			segmentHeight = 2
		}

		freqRatio := float64(i) / float64(len(g.bands))
		hue := (colorPhase + freqRatio*0.5) * 360
		r, g_val, b := hsvToRgb(hue, 0.8, 0.9)
		segmentColor := color.RGBA{R: r, G: g_val, B: b, A: uint8(100 + 155*clamp01(level))}

		segmentY := float64(barY) + float64(barHeight) - segmentHeight
		vector.DrawFilledRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), segmentColor, false)

		if level > 0.3 {
			highlightColor := color.RGBA{R: 255, G: 255, B: 255, A: uint8(100 * clamp01(level))}
			vector.StrokeRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), 1, highlightColor, false)
		}
	}

	ebitenutil.DebugPrintAt(screen, "Low", barX, barY-15)
	ebitenutil.DebugPrintAt(screen, "High", barX+barWidth-25, barY-15)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}

	vector.DrawFilledRect(screen, float32(config.ButtonX), float32(config.ButtonY), float32(config.ButtonWidth), float32(config.ButtonHeight), bgColor, false)
	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, float32(config.ButtonX), float32(config.ButtonY), float32(config.ButtonWidth), float32(config.ButtonHeight), 2, borderColor, false)

	text := "Add Music"
	textWidth := len(text) * 6
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) drawProgressBar(screen *ebiten.Image) {
	if g.audioDuration <= 0 {
		return
	}
	barX, barY, barWidth, barHeight := progressBarRect()
	progress := clamp01(float64(g.audioPosition) / float64(g.audioDuration))

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 25, G: 30, B: 40, A: 160}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	if progress > 0 {
		fill := g.sig.Colors[0].RGBA()
		fill.A = 180
		vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(progress*float64(barWidth)), float32(barHeight), fill, false)
	}

	indicatorX := float64(barX) + progress*float64(barWidth)
	vector.DrawFilledCircle(screen, float32(indicatorX), float32(barY+barHeight/2), 8, color.RGBA{R: 255, G: 255, B: 255, A: 255}, false)
	vector.StrokeCircle(screen, float32(indicatorX), float32(barY+barHeight/2), 8, 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)

	currentTime := formatDuration(g.audioPosition)
	totalTime := formatDuration(g.audioDuration)
	ebitenutil.DebugPrintAt(screen, currentTime, barX, barY+barHeight+5)
	ebitenutil.DebugPrintAt(screen, totalTime, barX+barWidth-len(totalTime)*6, barY+barHeight+5)

	if g.progressBarHovered {
		mouseX, mouseY := ebiten.CursorPosition()
		mouseProgress := clamp01(float64(mouseX-barX) / float64(barWidth))
		tooltip := formatDuration(time.Duration(mouseProgress * float64(g.audioDuration)))

		tooltipWidth := len(tooltip)*6 + 10
		tooltipX := min(max(mouseX-tooltipWidth/2, 0), config.WindowWidth-tooltipWidth)
		tooltipY := mouseY - 25
		vector.DrawFilledRect(screen, float32(tooltipX), float32(tooltipY), float32(tooltipWidth), 20, color.RGBA{A: 200}, false)
		vector.StrokeRect(screen, float32(tooltipX), float32(tooltipY), float32(tooltipWidth), 20, 1, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)
		ebitenutil.DebugPrintAt(screen, tooltip, tooltipX+5, tooltipY+3)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	status := ""
	track, loaded := g.player.Current()
	switch {
	case !loaded:
		status = "Add music with the button above or O"
	case !g.player.Playing():
		status = "Paused: " + track.Name
	default:
		status = "Playing: " + track.Name
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	cfg := g.ctrl.Config()
	line := fmt.Sprintf("%s | %s | %d particles", g.ctrl.Shape().Label(), cfg.Description, g.sig.VisibleCount)
	if g.mood.Analysing() {
		line += " | analysing mood..."
	}
	ebitenutil.DebugPrintAt(screen, line, 12, 28)
	ebitenutil.DebugPrintAt(screen, helpLine, config.ButtonX+config.ButtonWidth+16, config.ButtonY+12)
}
