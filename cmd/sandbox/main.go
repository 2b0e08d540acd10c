package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/config"
	"github.com/hubastard/framekit/engine/core"
	"github.com/hubastard/framekit/engine/platform"
	"github.com/hubastard/framekit/engine/profiler"
	"github.com/hubastard/framekit/engine/scratch"
	"github.com/hubastard/framekit/engine/ui"
	"go.uber.org/zap"
)

// GLFW and GL must stay on the main OS thread.
func init() { runtime.LockOSThread() }

// backend is what the sandbox needs from a platform surface.
type backend interface {
	core.Surface
	core.MessageSource
	ui.Painter
}

type App struct {
	cfg     *config.Config
	log     *zap.Logger
	ctl     *core.Controller
	surface backend
	rec     *profiler.Recorder
	overlay *Overlay
}

func main() {
	cfgPath := flag.String("config", "cmd/sandbox/sandbox.toml", "TOML or YAML config file")
	headless := flag.Bool("headless", false, "render into memory instead of a window")
	frames := flag.Int("frames", 300, "ticks to run when headless")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{cfg: cfg, log: log}
	if err := app.run(ctx, *headless, *frames); err != nil {
		log.Fatal("sandbox failed", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func (a *App) run(ctx context.Context, headless bool, frames int) error {
	opts := []core.Option{
		core.WithConfig(a.cfg.Core()),
		core.WithLogger(a.log),
	}
	if a.cfg.Profiler.Enabled {
		a.rec = profiler.New(1 << 16)
		opts = append(opts, core.WithPhaseTimer(a.rec))
		defer a.dumpProfile()
	}

	if headless {
		mem := platform.NewMemorySurface(a.log)
		a.surface = mem
		opts = append(opts, core.WithPrompter(platform.NewScriptedPrompter(platform.PromptReply{Text: "sandbox"})))
	} else {
		win := platform.NewGLFWWindow(a.cfg.Window.Title, a.cfg.Window.VSync, a.log)
		a.surface = win
		win.OnClose(func() { a.ctl.Exit() })
	}

	ctl, err := core.NewController(a.surface, a.surface, opts...)
	if err != nil {
		return err
	}
	a.ctl = ctl
	a.bind()

	if err := ctl.Start(a.cfg.Window.Width, a.cfg.Window.Height); err != nil {
		return err
	}
	if err := a.spawn(); err != nil {
		_ = ctl.Shutdown()
		return err
	}

	if !headless {
		if err := ctl.Scheduler().Run(ctx); err != nil {
			return err
		}
		return ctl.Shutdown()
	}
	for i := 0; i < frames && ctx.Err() == nil; i++ {
		if err := ctl.Tick(); err != nil {
			if errors.Is(err, core.ErrObjectDisposed) {
				return nil
			}
			return err
		}
	}
	return ctl.Shutdown()
}

// bind wires keyboard shortcuts.
func (a *App) bind() {
	a.ctl.OnKeyDown(func(k core.KeyCode) {
		switch k.Key {
		case core.KeyEscape:
			a.ctl.Exit()
		case core.KeyF1:
			a.ctl.SetModifierDisambiguation(!a.ctl.ModifierDisambiguation())
			a.log.Info("modifier disambiguation", zap.Bool("on", a.ctl.ModifierDisambiguation()))
		}
	})
	a.ctl.OnWindow(func(ev core.WindowEvent) {
		a.log.Debug("window event", zap.Uint16("kind", uint16(ev.Kind)), zap.Int64("lparam", ev.LParam))
	})
	a.ctl.OnRenderFault(func(f core.RenderFault) {
		a.log.Warn("drawable disabled after fault", zap.Error(f.Err))
		_, _ = a.ctl.Remove(f.Drawable)
	})
}

func (a *App) spawn() error {
	player := &Player{
		in:      a.ctl.Input(),
		painter: a.surface,
		bounds:  func() (int, int) { return a.surface.Width(), a.surface.Height() },
		size:    24,
		speed:   240,
		color:   colors.Cyan,
	}
	a.ctl.Scheduler().OnFixedUpdate(player.FixedUpdate)
	a.overlay = &Overlay{ctl: a.ctl, painter: a.surface, sb: scratch.New(512)}

	if err := a.ctl.RegisterMany(player, a.overlay); err != nil {
		return err
	}
	if a.cfg.UI.Layout == "" {
		return nil
	}

	layout, err := ui.LoadLayout(a.cfg.UI.Layout)
	if err != nil {
		return err
	}
	buttons, byName, err := layout.Build(a.ctl, a.surface)
	if err != nil {
		return err
	}
	for _, b := range buttons {
		if err := a.ctl.Register(b); err != nil {
			return err
		}
	}
	if quit, ok := byName["quit"]; ok {
		quit.OnClick(func(*ui.ClickButton) { a.ctl.Exit() })
	}
	if name, ok := byName["name"]; ok {
		prompt := a.ctl.NewTextInput(core.PromptRequest{Title: "Sandbox", Prompt: "Your name:", MaxLen: 16})
		name.OnClick(func(*ui.ClickButton) {
			text, ok, err := prompt.Input(context.Background())
			switch {
			case errors.Is(err, core.ErrUnsupportedOperation):
				a.log.Info("text input not available on this backend")
			case err != nil:
				a.log.Error("text input", zap.Error(err))
			case ok:
				a.overlay.name = text
			}
		})
	}
	return nil
}

func (a *App) dumpProfile() {
	if err := a.rec.Dump(a.cfg.Profiler.Output, a.cfg.Window.Title); err != nil {
		a.log.Warn("profile not written", zap.Error(err))
		return
	}
	a.log.Info("profile written", zap.String("path", a.cfg.Profiler.Output))
}
