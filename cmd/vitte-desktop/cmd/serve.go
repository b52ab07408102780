package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/vitte-lang/desktop/pkg/desktop"
	"github.com/vitte-lang/desktop/pkg/inspect"
	"github.com/vitte-lang/desktop/pkg/trace"
)

const defaultInspectAddr = "127.0.0.1:9777"

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Run the demo scene with the inspection server",
		Long: `Run the demo scene on the stub backend and serve its widget graph over
HTTP. The loop runs until Ctrl-C or POST /loop/quit.

Endpoints: /health, /widgets, /widgets/{id}, /widgets/{id}/children,
/loop, /loop/quit (POST), /traces.

Flags:
  --addr ADDR   Listen address (default: inspect.addr or 127.0.0.1:9777)`,
		Usage: "vitte-desktop serve [--addr ADDR]",
		Run:   runServe,
	})
}

func runServe(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Inspect.Addr
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--addr":
			if i+1 >= len(args) {
				return fmt.Errorf("--addr requires an address")
			}
			addr = args[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag %q", args[i])
		}
	}
	if addr == "" {
		addr = defaultInspectAddr
	}

	recent := trace.NewRecorder(cfg.Trace.Keep)
	d := desktop.New(cfg, desktop.WithTraceSink(recent))
	d.Init([]string{"vitte-desktop", "serve"})
	s, ok := d.Stub()
	if !ok {
		return fmt.Errorf("serve requires the stub backend (active: %s)", d.Backend().Name())
	}
	buildScene(d)

	srv := inspect.New(s, recent)
	bound, err := srv.Start(addr)
	if err != nil {
		return err
	}
	fmt.Printf("Inspecting on http://%s\n", bound)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
	}()

	stop := quitOnSignal(d)
	defer stop()
	if code := d.Main(); code != 0 {
		return fmt.Errorf("event loop exited with code %d", code)
	}
	return nil
}
