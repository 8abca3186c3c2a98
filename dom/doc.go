// Package dom binds a webterm session to a browser page when built with
// GOOS=js GOARCH=wasm: keydown and resize listeners, the tab element as
// display surface, navigator.clipboard, the page selection, a `<code>`
// element probe for the font cell size and the page's WebSocket as channel.
//
// The page lays out each terminal tab as a radio input followed by the tab
// content, inside a container that has the "active" class when shown.
package dom // import "fortio.org/webterm/dom"
