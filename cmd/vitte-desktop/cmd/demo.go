package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitte-lang/desktop/pkg/desktop"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Build a small scene and run the event loop",
		Long: `Build a demo scene and run the event loop.

The scene is a window "App" (640x480) holding a button created as "OK" and
retitled "Confirm". The loop runs until interrupted (Ctrl-C) or, with --for,
until the duration elapses.

Flags:
  --for DURATION   Quit the loop after DURATION (e.g. 500ms, 2s)`,
		Usage: "vitte-desktop demo [--for DURATION]",
		Run:   runDemo,
	})
}

type demoOptions struct {
	duration time.Duration
}

func parseDemoArgs(args []string) (demoOptions, error) {
	var opts demoOptions
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--for":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--for requires a duration")
			}
			d, err := time.ParseDuration(args[i+1])
			if err != nil {
				return opts, fmt.Errorf("invalid --for value: %w", err)
			}
			opts.duration = d
			i++
		default:
			return opts, fmt.Errorf("unknown flag %q", arg)
		}
	}
	return opts, nil
}

func runDemo(args []string) error {
	opts, err := parseDemoArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d := desktop.New(cfg)
	d.Init(append([]string{"vitte-desktop"}, args...))
	buildScene(d)

	stop := quitOnSignal(d)
	defer stop()
	if opts.duration > 0 {
		cancel := quitAfter(d, opts.duration)
		defer cancel()
	}

	if code := d.Main(); code != 0 {
		return fmt.Errorf("event loop exited with code %d", code)
	}
	return nil
}

// buildScene creates the demo widgets and returns the window handle.
func buildScene(d *desktop.Desktop) desktop.Handle {
	win := d.WindowNew("App", 640, 480)
	ok := d.ButtonNew("OK")
	d.WidgetSetParent(ok, win)
	d.WidgetSetTitle(ok, "Confirm")
	d.WidgetShow(win)
	return win
}

// quitAfter calls MainQuit once the loop has run for the given duration.
// On the stub backend the countdown starts when the loop is running, since
// a quit issued while idle is dropped. The returned function cancels it.
func quitAfter(d *desktop.Desktop, after time.Duration) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if s, ok := d.Stub(); ok {
			if err := s.Loop().Wait(ctx); err != nil {
				return
			}
		}
		timer := time.NewTimer(after)
		defer timer.Stop()
		select {
		case <-timer.C:
			if ctx.Err() == nil {
				d.MainQuit()
			}
		case <-ctx.Done():
		}
	}()
	return cancel
}

// quitOnSignal stops the loop on SIGINT or SIGTERM. The returned function
// releases the signal handler.
func quitOnSignal(d *desktop.Desktop) func() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigc:
			d.MainQuit()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigc)
		close(done)
	}
}
