//go:build js && wasm

// Browser webterm client, loaded with wasm_exec.js. Exposes
//
//	webtermAttach(sessionID, tabElement, socket[, configTOML]) -> {detach()}
//
// to the page.
package main

import (
	"fmt"
	"syscall/js"

	"fortio.org/log"
	"fortio.org/webterm"
	"fortio.org/webterm/dom"
)

type probeKey struct {
	glyph string
	count int
}

var probed = map[probeKey]webterm.CellMetrics{}

// cells measures once per glyph and count, the page font doesn't change.
func cells(cfg webterm.Config) (webterm.CellMetrics, error) {
	k := probeKey{cfg.ProbeGlyph, cfg.ProbeCount}
	if c, ok := probed[k]; ok {
		return c, nil
	}
	c, err := webterm.ProbeCells(dom.CodeProbe{}, cfg.ProbeGlyph, cfg.ProbeCount)
	if err != nil {
		return c, err
	}
	probed[k] = c
	return c, nil
}

func errorResult(format string, args ...any) any {
	msg := fmt.Sprintf(format, args...)
	log.Errf("webtermAttach: %s", msg)
	return js.ValueOf(map[string]any{"error": msg})
}

func attach(_ js.Value, args []js.Value) any {
	if len(args) < 3 {
		return errorResult("expected (sessionID, tabElement, socket[, configTOML]), got %d arguments", len(args))
	}
	cfg := webterm.DefaultConfig()
	if len(args) > 3 && args[3].Type() == js.TypeString {
		var err error
		if cfg, err = webterm.ParseConfig([]byte(args[3].String())); err != nil {
			return errorResult("%v", err)
		}
	}
	c, err := cells(cfg)
	if err != nil {
		return errorResult("%v", err)
	}
	a := dom.Attach(args[0].String(), args[1], args[2], cfg, c)
	var detach js.Func
	detach = js.FuncOf(func(js.Value, []js.Value) any {
		a.Detach()
		detach.Release()
		return nil
	})
	return js.ValueOf(map[string]any{"detach": detach})
}

func main() {
	js.Global().Set("webtermAttach", js.FuncOf(attach))
	if _, err := cells(webterm.DefaultConfig()); err != nil {
		log.Warnf("Initial font probe: %v", err)
	}
	log.Infof("webterm ready")
	select {}
}
