//go:build js && wasm

package dom

import (
	"html"
	"strings"
	"syscall/js"
)

// CodeProbe measures glyphs with a temporary `<code>` element, so the page's
// own monospace font and css apply.
type CodeProbe struct{}

func (CodeProbe) MeasureColumn(glyph string, count int) (float64, float64, error) {
	doc := js.Global().Get("document")
	code := doc.Call("createElement", "code")
	lines := make([]string, count)
	for i := range lines {
		lines[i] = html.EscapeString(glyph)
	}
	code.Set("innerHTML", strings.Join(lines, "<br>"))
	body := doc.Get("body")
	body.Call("appendChild", code)
	r := code.Call("getBoundingClientRect")
	body.Call("removeChild", code)
	return r.Get("width").Float(), r.Get("height").Float(), nil
}
