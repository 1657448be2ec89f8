// Command desktop runs one collision session in a local window. The
// window is the world, the mouse cursor is the pointer.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/game"
	"github.com/besuhoff/collision-demo-go/internal/types"
	"github.com/besuhoff/collision-demo-go/internal/utils"
)

const outlineWidth = 1

// Game adapts an Engine to ebiten. Update is the frame scheduler; Draw
// replays the particles recorded during the last step.
type Game struct {
	engine  *game.Engine
	opts    game.EngineOptions
	frame   types.FrameState
	showHUD bool
}

func newGame(opts game.EngineOptions) (*Game, error) {
	engine, err := game.NewEngine("desktop", opts)
	if err != nil {
		return nil, err
	}
	return &Game{engine: engine, opts: opts, showHUD: true}, nil
}

// Update ---
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		engine, err := game.NewEngine("desktop", g.opts)
		if err != nil {
			log.Printf("Reset failed: %v", err)
		} else {
			g.engine = engine
		}
	}

	mx, my := ebiten.CursorPosition()
	g.engine.SetPointer(float64(mx), float64(my))
	g.frame = g.engine.Tick()
	return nil
}

// Draw ---
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)

	for _, p := range g.frame.Particles {
		c, _ := types.ParseHexColor(p.Color)
		x, y, r := float32(p.X), float32(p.Y), float32(p.Radius)

		if p.Opacity > 0 {
			fill := color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(utils.Clamp(p.Opacity, 0, 1) * 255)}
			vector.DrawFilledCircle(screen, x, y, r, fill, true)
		}
		vector.StrokeCircle(screen, x, y, r, outlineWidth, c, true)
	}

	if g.showHUD {
		stats := g.engine.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"TPS %.0f  frame %d  collisions %d  wall bounces %d\n[R] reset  [H] hide  [Esc] quit",
			ebiten.ActualTPS(), stats.Frames, stats.Collisions, stats.WallBounces))
	}
}

// Layout ---
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	world := g.engine.World()
	return int(world.Width), int(world.Height)
}

func main() {
	cfg := config.LoadConfig()

	width := flag.Int("width", int(config.DefaultWorldWidth), "Window width in pixels")
	height := flag.Int("height", int(config.DefaultWorldHeight), "Window height in pixels")
	particles := flag.Int("particles", cfg.ParticleCount, "Number of particles")
	radius := flag.Float64("radius", cfg.ParticleRadius, "Particle radius in pixels")
	seed := flag.Int64("seed", cfg.RandomSeed, "Random seed, 0 for time based")
	overlap := flag.String("overlap", cfg.OverlapRule, "Overlap rule: diameter or sum")
	flag.Parse()

	g, err := newGame(game.EngineOptions{
		World:         types.World{Width: float64(*width), Height: float64(*height)},
		ParticleCount: *particles,
		Radius:        *radius,
		Rule:          game.ParseOverlapRule(*overlap),
		Random:        game.NewRandomSource(*seed),
	})
	if err != nil {
		log.Fatalf("Failed to place particles: %v", err)
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Collision demo")

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
