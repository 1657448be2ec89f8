// Command terminal runs one collision session in the terminal. Each cell
// covers a fixed block of world units; the mouse is the pointer.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/game"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

// World units per cell. Cells are roughly twice as tall as wide.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// cellSink draws particles straight into the screen buffer as they are stepped
type cellSink struct {
	screen tcell.Screen
	rows   int
}

func (s *cellSink) DrawParticle(p *types.Particle) {
	style := tcell.StyleDefault.Foreground(tcell.GetColor(p.Color))
	fill := fillRune(p.Opacity)

	minCol := int(math.Floor((p.Position.X - p.Radius) / cellWidth))
	maxCol := int(math.Ceil((p.Position.X + p.Radius) / cellWidth))
	minRow := int(math.Floor((p.Position.Y - p.Radius) / cellHeight))
	maxRow := int(math.Ceil((p.Position.Y + p.Radius) / cellHeight))

	for row := minRow; row <= maxRow; row++ {
		if row < 0 || row >= s.rows {
			continue
		}
		for col := minCol; col <= maxCol; col++ {
			center := types.Vector2{X: (float64(col) + 0.5) * cellWidth, Y: (float64(row) + 0.5) * cellHeight}
			d := p.DistanceToPoint(center)
			switch {
			case d > p.Radius:
			case d > p.Radius-cellWidth:
				s.screen.SetContent(col, row, '•', nil, style)
			case fill != ' ':
				s.screen.SetContent(col, row, fill, nil, style)
			}
		}
	}
}

// fillRune shades the interior by opacity, which never exceeds MaxOpacity
func fillRune(opacity float64) rune {
	switch {
	case opacity <= 0:
		return ' '
	case opacity < config.MaxOpacity/3:
		return '░'
	case opacity < config.MaxOpacity*2/3:
		return '▒'
	default:
		return '▓'
	}
}

func run(screen tcell.Screen, engine *game.Engine) {
	_, rows := screen.Size()
	sink := &cellSink{screen: screen, rows: rows - 1}

	ticker := time.NewTicker(config.FrameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	statusStyle := tcell.StyleDefault.Reverse(true)

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
			case *tcell.EventMouse:
				x, y := ev.Position()
				engine.SetPointer((float64(x)+0.5)*cellWidth, (float64(y)+0.5)*cellHeight)
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			screen.Clear()
			engine.Update(sink)

			stats := engine.Stats()
			status := fmt.Sprintf(" frame %d  collisions %d  wall bounces %d  [q] quit ",
				stats.Frames, stats.Collisions, stats.WallBounces)
			for i, r := range status {
				screen.SetContent(i, sink.rows, r, nil, statusStyle)
			}
			screen.Show()
		}
	}
}

func main() {
	cfg := config.LoadConfig()

	particles := flag.Int("particles", 30, "Number of particles")
	radius := flag.Float64("radius", cfg.ParticleRadius, "Particle radius in world units")
	seed := flag.Int64("seed", cfg.RandomSeed, "Random seed, 0 for time based")
	overlap := flag.String("overlap", cfg.OverlapRule, "Overlap rule: diameter or sum")
	flag.Parse()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)

	// The world is the screen minus the status line, read once
	cols, rows := screen.Size()
	world := types.World{Width: float64(cols) * cellWidth, Height: float64(rows-1) * cellHeight}

	engine, err := game.NewEngine("terminal", game.EngineOptions{
		World:         world,
		ParticleCount: *particles,
		Radius:        *radius,
		Rule:          game.ParseOverlapRule(*overlap),
		Random:        game.NewRandomSource(*seed),
	})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to place %d particles in a %dx%d terminal: %v\n", *particles, cols, rows, err)
		os.Exit(1)
	}

	// stderr shares the terminal with the screen
	log.SetOutput(io.Discard)

	run(screen, engine)
	screen.Fini()
}
