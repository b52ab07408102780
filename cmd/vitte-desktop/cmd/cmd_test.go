package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vitte-lang/desktop/pkg/config"
	desktoptest "github.com/vitte-lang/desktop/pkg/testing"
	"github.com/vitte-lang/desktop/pkg/widget"
)

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvVerbose, "0")
	t.Setenv(config.EnvBackend, "")
	os.Unsetenv(config.EnvBackend)
	t.Setenv(config.EnvConfig, "")
	os.Unsetenv(config.EnvConfig)
}

func TestParseDemoArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    time.Duration
		wantErr bool
	}{
		{nil, 0, false},
		{[]string{"--for", "250ms"}, 250 * time.Millisecond, false},
		{[]string{"--for"}, 0, true},
		{[]string{"--for", "soon"}, 0, true},
		{[]string{"--bogus"}, 0, true},
	}
	for _, tt := range tests {
		opts, err := parseDemoArgs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDemoArgs(%v) err = %v", tt.args, err)
			continue
		}
		if opts.duration != tt.want {
			t.Errorf("parseDemoArgs(%v) = %v, want %v", tt.args, opts.duration, tt.want)
		}
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	if err := Execute([]string{"frobnicate"}); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestExecuteHelpAndVersion(t *testing.T) {
	for _, args := range [][]string{nil, {"--help"}, {"--version"}, {"demo", "--help"}} {
		if err := Execute(args); err != nil {
			t.Errorf("Execute(%v) = %v", args, err)
		}
	}
}

func TestDemoRunsForDuration(t *testing.T) {
	quietEnv(t)
	start := time.Now()
	if err := Execute([]string{"demo", "--for", "20ms"}); err != nil {
		t.Fatalf("demo: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("demo took %v", elapsed)
	}
}

func TestQuitAfterWaitsForLoop(t *testing.T) {
	quietEnv(t)
	tester := desktoptest.NewTester(t, nil)
	d := tester.Desktop()

	cancel := quitAfter(d, time.Nanosecond)
	defer cancel()
	// Let the countdown elapse before the loop starts.
	time.Sleep(20 * time.Millisecond)

	code := make(chan int, 1)
	go func() { code <- d.Main() }()
	select {
	case got := <-code:
		if got != 0 {
			t.Errorf("Main() = %d, want 0", got)
		}
	case <-time.After(2 * time.Second):
		d.MainQuit()
		t.Fatal("Main did not return; quit fired before the loop was running")
	}
}

func TestQuitAfterCancel(t *testing.T) {
	quietEnv(t)
	tester := desktoptest.NewTester(t, nil)
	cancel := quitAfter(tester.Desktop(), time.Nanosecond)
	cancel()

	run := tester.RunLoop()
	time.Sleep(20 * time.Millisecond)
	if !tester.Stub().Loop().Running() {
		t.Fatal("cancelled countdown still stopped the loop")
	}
	tester.Desktop().MainQuit()
	if code := run.Wait(200 * time.Millisecond); code != 0 {
		t.Errorf("Main() = %d, want 0", code)
	}
}

func TestBuildScene(t *testing.T) {
	quietEnv(t)
	tester := desktoptest.NewTester(t, nil)
	win := buildScene(tester.Desktop())

	tester.ExpectOps("init", "window_new", "button_new", "set_parent", "set_title", "widget_show")
	if got := tester.Widget(win); got.Title != "App" || got.Width != 640 || got.Height != 480 {
		t.Errorf("window = %+v", got)
	}
	btn := tester.Find(desktoptest.ChildOf(widget.ID(win)))
	if btn.Count() != 1 || btn.First().Title != "Confirm" {
		t.Errorf("children = %+v", btn.All())
	}

	run := tester.RunLoop()
	tester.Desktop().MainQuit()
	if code := run.Wait(200 * time.Millisecond); code != 0 {
		t.Errorf("Main() = %d, want 0", code)
	}
}

func TestConfigFlag(t *testing.T) {
	quietEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("backend: stub\nwindow:\n  width: 1280\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Execute([]string{"--config", path, "config"}); err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("width = %d, want 1280", cfg.Window.Width)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("abi: v9.0.0\n"), 0o644)
	err = Execute([]string{"--config=" + bad, "config"})
	if err == nil || !strings.Contains(err.Error(), "incompatible") {
		t.Errorf("err = %v, want incompatible abi", err)
	}
}

func TestBackendsCommand(t *testing.T) {
	if err := Execute([]string{"backends"}); err != nil {
		t.Errorf("backends: %v", err)
	}
}
