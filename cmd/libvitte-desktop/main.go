// Command libvitte-desktop builds the desktop shim as a C shared library:
//
//	go build -buildmode=c-shared -o libvitte-desktop.so ./cmd/libvitte-desktop
//
// Exported API (C ABI, handles are uintptr_t, 0 is NULL):
//
//	void      vitte_desktop_init(int *argc, char ***argv);
//	uintptr_t vitte_desktop_window_new(const char *title, int w, int h);
//	uintptr_t vitte_desktop_button_new(const char *label);
//	void      vitte_desktop_widget_set_parent(uintptr_t child, uintptr_t parent);
//	void      vitte_desktop_widget_show(uintptr_t widget);
//	void      vitte_desktop_widget_set_title(uintptr_t widget, const char *title);
//	int       vitte_desktop_main(void);
//	void      vitte_desktop_main_quit(void);
//	void      vitte_desktop_set_verbose(int on);
//
// A C host has no object to hold, so this package keeps one process-wide
// facade. Go callers should use package desktop directly.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"os"
	"sync"
	"unsafe"

	"github.com/vitte-lang/desktop/pkg/config"
	"github.com/vitte-lang/desktop/pkg/desktop"
	"github.com/vitte-lang/desktop/pkg/errors"
)

var (
	facadeOnce sync.Once
	facade     *desktop.Desktop
)

// shared returns the process-wide facade, resolving configuration on first
// use. An invalid configuration degrades to the defaults.
func shared() *desktop.Desktop {
	facadeOnce.Do(func() {
		dir, _ := os.Getwd()
		cfg, err := config.Resolve(dir)
		if err != nil {
			errors.Warn("libvitte-desktop.config", errors.KindConfig, err)
			cfg = config.Default()
			cfg.ApplyEnv()
		}
		facade = desktop.New(cfg)
	})
	return facade
}

// goArgs copies a C argv. argc and argv may be NULL.
func goArgs(argc *C.int, argv ***C.char) []string {
	if argc == nil || argv == nil || *argv == nil || *argc <= 0 {
		return nil
	}
	n := int(*argc)
	ptrs := unsafe.Slice(*argv, n)
	args := make([]string, 0, n)
	for _, p := range ptrs {
		if p == nil {
			break
		}
		args = append(args, C.GoString(p))
	}
	return args
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

//export vitte_desktop_init
func vitte_desktop_init(argc *C.int, argv ***C.char) {
	shared().Init(goArgs(argc, argv))
}

//export vitte_desktop_window_new
func vitte_desktop_window_new(title *C.char, w, h C.int) C.uintptr_t {
	return C.uintptr_t(shared().WindowNew(goString(title), int(w), int(h)))
}

//export vitte_desktop_button_new
func vitte_desktop_button_new(label *C.char) C.uintptr_t {
	return C.uintptr_t(shared().ButtonNew(goString(label)))
}

//export vitte_desktop_widget_set_parent
func vitte_desktop_widget_set_parent(child, parent C.uintptr_t) {
	shared().WidgetSetParent(desktop.Handle(child), desktop.Handle(parent))
}

//export vitte_desktop_widget_show
func vitte_desktop_widget_show(widget C.uintptr_t) {
	shared().WidgetShow(desktop.Handle(widget))
}

//export vitte_desktop_widget_set_title
func vitte_desktop_widget_set_title(widget C.uintptr_t, title *C.char) {
	shared().WidgetSetTitle(desktop.Handle(widget), goString(title))
}

//export vitte_desktop_main
func vitte_desktop_main() C.int {
	return C.int(shared().Main())
}

//export vitte_desktop_main_quit
func vitte_desktop_main_quit() {
	shared().MainQuit()
}

//export vitte_desktop_set_verbose
func vitte_desktop_set_verbose(on C.int) {
	shared().SetVerbose(on != 0)
}

func main() {}
