package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nevisdale/rmcore/internal/machine"
)

// P - pause
// R - one step and stop
// +/- - instructions per frame

type UI struct {
	m *machine.Machine

	stepsPerFrame int
}

func New(m *machine.Machine) *UI {
	return &UI{
		m:             m,
		stepsPerFrame: 1,
	}
}

func (ui *UI) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ui.m.TogglePause()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ui.m.OneStepAndStop()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) && ui.stepsPerFrame < maxStepsPerFrame {
		ui.stepsPerFrame *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && ui.stepsPerFrame > 1 {
		ui.stepsPerFrame /= 2
	}

	// execution errors halt the machine and show up in the status line,
	// the window stays open to inspect them
	for i := 0; i < ui.stepsPerFrame; i++ {
		if err := ui.m.Tic(); err != nil {
			break
		}
	}
	return nil
}

func (ui *UI) Draw(screen *ebiten.Image) {
	info := ui.m.DebugInfo()

	var regs strings.Builder
	fmt.Fprintf(&regs, " FPS: %0.0f  STEPS/FRAME: %d\n", ebiten.ActualFPS(), ui.stepsPerFrame)
	fmt.Fprintf(&regs, " STATUS: %s  STEPS: %d\n", info.StatusString(), info.Steps)
	fmt.Fprintf(&regs, "\n")
	fmt.Fprintf(&regs, " AX: %04X  BX: %04X  CX: %04X  DX: %04X\n", info.AX, info.BX, info.CX, info.DX)
	fmt.Fprintf(&regs, " SP: %04X  BP: %04X  SI: %04X  DI: %04X\n", info.SP, info.BP, info.SI, info.DI)
	fmt.Fprintf(&regs, " ES: %04X  CS: %04X  SS: %04X  DS: %04X\n", info.ES, info.CS, info.SS, info.DS)
	fmt.Fprintf(&regs, " IP: %04X (%05X)\n", info.IP, info.IP32)
	fmt.Fprintf(&regs, " FLAGS: %04X [%s]\n", info.Flags, info.FlagsString)
	if info.Err != nil {
		fmt.Fprintf(&regs, "\n %s\n", wrap(info.Err.Error(), textColumns))
	}

	var code strings.Builder
	lines, err := ui.m.Disassemble(disasmLines)
	for i, l := range lines {
		mark := " "
		if i == 0 {
			mark = "*"
		}
		code.WriteString(mark + l.String() + "\n")
	}
	if err != nil {
		code.WriteString(" <end of memory>\n")
	}

	vector.DrawFilledRect(screen, 0, 0, screenWidth, registersHeight, color.RGBA{50, 50, 50, 255}, false)
	ebitenutil.DebugPrintAt(screen, regs.String(), 0, 0)
	ebitenutil.DebugPrintAt(screen, code.String(), 0, registersHeight)
}

const (
	textColumns      = 60
	disasmLines      = 16
	maxStepsPerFrame = 1 << 12

	screenWidth     = 400
	screenHeight    = 400
	registersHeight = 160
)

func (ui *UI) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

func RunUI(ui *UI) error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("rmcore")
	ebiten.SetTPS(60)
	return ebiten.RunGame(ui)
}

func wrap(s string, n int) string {
	var b strings.Builder
	for len(s) > n {
		b.WriteString(s[:n] + "\n ")
		s = s[n:]
	}
	b.WriteString(s)
	return b.String()
}
