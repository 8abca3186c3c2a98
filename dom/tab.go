//go:build js && wasm

package dom

import (
	"strconv"
	"syscall/js"

	"fortio.org/webterm"
)

// Tab is the content element of one terminal tab.
type Tab struct {
	El js.Value
}

func present(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined()
}

// Active is true when the tab's container is active and its radio toggle
// is checked.
func (t Tab) Active() bool {
	parent := t.El.Get("parentNode")
	if !present(parent) || !parent.Get("classList").Call("contains", "active").Bool() {
		return false
	}
	toggle := t.El.Get("previousElementSibling")
	return present(toggle) && toggle.Get("checked").Truthy()
}

// Surface is the tab element as the sizer sees it. Fit sets its bottom
// padding or its height, which are cleared again while measuring.
type Surface struct {
	Tab
	fitted bool
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func (s *Surface) ContentBox() webterm.Box {
	style := s.El.Get("style")
	props := []string{"paddingBottom", "height", "boxSizing"}
	var saved []js.Value
	if s.fitted {
		for _, p := range props {
			saved = append(saved, style.Get(p))
			style.Set(p, "")
		}
	}
	r := s.El.Call("getBoundingClientRect")
	for i, v := range saved {
		style.Set(props[i], v)
	}
	return webterm.Box{W: r.Get("width").Float(), H: r.Get("height").Float()}
}

func (s *Surface) Fit(layout webterm.Layout, exact, slack webterm.Box) {
	style := s.El.Get("style")
	switch layout {
	case webterm.LayoutHeight:
		// exact is measured from the border box, so is the height we set.
		style.Set("boxSizing", "border-box")
		style.Set("height", px(exact.H))
	case webterm.LayoutPadding:
		style.Set("paddingBottom", px(slack.H))
	}
	s.fitted = true
}

// ScrollToBottom returns a callback scrolling el to the bottom unless it
// already is there.
func ScrollToBottom(el js.Value) func() {
	return func() {
		bottom := el.Get("scrollHeight").Float() - el.Get("clientHeight").Float()
		if bottom > el.Get("scrollTop").Float()+1 {
			el.Set("scrollTop", bottom)
		}
	}
}
