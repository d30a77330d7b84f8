// Package main is the interactive river viewer. It renders the
// generated rivers in an SDL2/OpenGL window and regenerates them live:
// R rerolls every river's seed, E nudges the rail control nodes.
package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/rivergen/internal/config"
	"github.com/Faultbox/rivergen/internal/engine/camera"
	"github.com/Faultbox/rivergen/internal/engine/scene"
	"github.com/Faultbox/rivergen/internal/engine/window"
	"github.com/Faultbox/rivergen/internal/event"
	"github.com/Faultbox/rivergen/internal/logger"
	"github.com/Faultbox/rivergen/internal/rail"
	"github.com/Faultbox/rivergen/internal/river"
	"github.com/Faultbox/rivergen/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.River.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== riverview ===")

	v, err := newViewer(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

type viewer struct {
	cfg      *config.Config
	window   *window.Window
	renderer *scene.RiverRenderer
	camera   *camera.OrbitCamera

	bus     *event.Bus
	manager *rail.Manager
	system  *river.System

	rng      *rand.Rand
	dragging bool
}

func newViewer(cfg *config.Config) (*viewer, error) {
	win, err := window.New(window.Config{
		Title:      "riverview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		win.Close()
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	gl.Enable(gl.DEPTH_TEST)

	renderer, err := scene.NewRiverRenderer()
	if err != nil {
		win.Close()
		return nil, err
	}

	v := &viewer{
		cfg:      cfg,
		window:   win,
		renderer: renderer,
		camera:   camera.NewOrbitCamera(),
		bus:      event.NewBus(),
		rng:      rand.New(rand.NewSource(int64(sdl.GetTicks64()))),
	}

	v.manager = rail.NewManager(v.bus)
	if err := v.manager.LoadFile(cfg.Data.RailsFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			v.Close()
			return nil, err
		}
		logger.Warn("rail set not found, using a default circle",
			zap.String("path", cfg.Data.RailsFile))
		v.manager.Add(rail.Circle("main", 100, 12))
	}

	v.system = river.NewSystem(&cfg.River, v.manager, renderer)
	v.system.Attach(v.bus)

	rivers, err := river.LoadRecords(cfg.Data.RiversFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			v.Close()
			return nil, err
		}
		for i, name := range v.manager.Names() {
			rivers = append(rivers, &river.River{
				Name:       name,
				RailName:   name,
				RandomSeed: int64(i + 1),
			})
		}
	}
	for _, r := range rivers {
		if err := v.system.Add(r); err != nil {
			v.Close()
			return nil, err
		}
	}

	v.camera.FitToBounds(renderer.MinBounds, renderer.MaxBounds)
	return v, nil
}

// Run drives the event and render loop until quit.
func (v *viewer) Run() error {
	for {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch e := ev.(type) {
			case *sdl.QuitEvent:
				return nil

			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					break
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					return nil
				case sdl.K_r:
					v.rerollSeeds()
				case sdl.K_e:
					v.perturbRails()
				}

			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_LEFT {
					v.dragging = e.Type == sdl.MOUSEBUTTONDOWN
				}

			case *sdl.MouseMotionEvent:
				if v.dragging {
					v.camera.HandleDrag(float32(e.XRel), float32(e.YRel))
				}

			case *sdl.MouseWheelEvent:
				v.camera.HandleZoom(float32(e.Y))
			}
		}

		v.render()
		v.window.SwapBuffers()
	}
}

func (v *viewer) render() {
	width, height := v.window.GetSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.10, 0.12, 0.15, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	proj := math.Perspective(0.9, float32(width)/float32(height), 1, 10000)
	viewProj := proj.Mul(v.camera.ViewMatrix())

	v.renderer.Render(viewProj, float32(sdl.GetTicks64())/1000)
}

// rerollSeeds draws a fresh seed for every river and rebuilds it.
func (v *viewer) rerollSeeds() {
	for _, r := range v.system.Rivers() {
		r.RandomSeed = v.rng.Int63()
		if err := v.system.Rebuild(r); err != nil {
			logger.Error("reroll failed", zap.String("river", r.Name), zap.Error(err))
		}
	}
	logger.Info("rerolled river seeds")
}

// perturbRails nudges every rail control node in the ground plane. The
// edit goes through the manager, so the change event rebuilds the
// rivers automatically.
func (v *viewer) perturbRails() {
	for _, name := range v.manager.Names() {
		r, ok := v.manager.Get(name)
		if !ok {
			continue
		}
		nodes := append([]math.Vec3(nil), r.Nodes...)
		for i := range nodes {
			nodes[i].X += (v.rng.Float32() - 0.5) * 10
			nodes[i].Y += (v.rng.Float32() - 0.5) * 10
		}
		if err := v.manager.SetNodes(name, nodes); err != nil {
			logger.Error("rail edit failed", zap.String("rail", name), zap.Error(err))
		}
	}
	logger.Info("perturbed rail nodes")
}

// Close tears the viewer down in reverse construction order.
func (v *viewer) Close() {
	if v.system != nil {
		v.system.Detach()
	}
	if v.renderer != nil {
		v.renderer.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
