// Package testing provides a harness for testing code that drives the desktop
// shim, built on the stub backend.
//
// # Quick Start
//
//	func TestDialog(t *testing.T) {
//	    tester := desktoptest.NewTester(t, nil)
//	    win := tester.Desktop().WindowNew("App", 640, 480)
//	    ok := tester.Desktop().ButtonNew("OK")
//	    tester.Desktop().WidgetSetParent(ok, win)
//
//	    if !tester.Find(desktoptest.ByLabel("OK")).Exists() {
//	        t.Error("expected an OK button")
//	    }
//	    tester.ExpectOps("init", "window_new", "button_new", "set_parent")
//	}
//
// # Event Loop
//
// RunLoop starts Main on its own goroutine and returns once the loop is
// running:
//
//	run := tester.RunLoop()
//	tester.Desktop().MainQuit()
//	code := run.Wait(200 * time.Millisecond)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import desktoptest "github.com/vitte-lang/desktop/pkg/testing"
package testing
