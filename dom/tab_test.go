//go:build js && wasm

package dom_test

import (
	"syscall/js"
	"testing"

	"fortio.org/webterm"
	"fortio.org/webterm/dom"
)

// newElement is a plain object with just what Surface uses. The rect is
// 650x410, seen only while the fitted style is cleared.
func newElement(t *testing.T) js.Value {
	t.Helper()
	obj := js.Global().Get("Object")
	el := obj.New()
	style := obj.New()
	el.Set("style", style)
	rect := js.FuncOf(func(js.Value, []js.Value) any {
		for _, p := range []string{"paddingBottom", "height", "boxSizing"} {
			if v := style.Get(p); v.Truthy() {
				t.Errorf("measured with %s=%s still set", p, v.String())
			}
		}
		return js.ValueOf(map[string]any{"width": 650.0, "height": 410.0})
	})
	t.Cleanup(rect.Release)
	el.Set("getBoundingClientRect", rect)
	return el
}

func TestSurfaceFitHeight(t *testing.T) {
	el := newElement(t)
	s := &dom.Surface{Tab: dom.Tab{El: el}}
	s.Fit(webterm.LayoutHeight, webterm.Box{W: 650, H: 394}, webterm.Box{H: 16})
	style := el.Get("style")
	if got := style.Get("height").String(); got != "394px" {
		t.Errorf("height = %q", got)
	}
	if got := style.Get("boxSizing").String(); got != "border-box" {
		t.Errorf("boxSizing = %q, want border-box so padding doesn't add to the grid height", got)
	}
	if b := s.ContentBox(); b != (webterm.Box{W: 650, H: 410}) {
		t.Errorf("ContentBox = %v", b)
	}
	if got := style.Get("height").String(); got != "394px" {
		t.Errorf("height after measuring = %q, want restored", got)
	}
}

func TestSurfaceFitPadding(t *testing.T) {
	el := newElement(t)
	s := &dom.Surface{Tab: dom.Tab{El: el}}
	s.Fit(webterm.LayoutPadding, webterm.Box{W: 650, H: 394}, webterm.Box{W: 5.5, H: 16})
	style := el.Get("style")
	if got := style.Get("paddingBottom").String(); got != "16px" {
		t.Errorf("paddingBottom = %q", got)
	}
	if b := s.ContentBox(); b != (webterm.Box{W: 650, H: 410}) {
		t.Errorf("ContentBox = %v", b)
	}
	if got := style.Get("paddingBottom").String(); got != "16px" {
		t.Errorf("paddingBottom after measuring = %q", got)
	}
}
