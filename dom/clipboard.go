//go:build js && wasm

package dom

import (
	"context"
	"errors"
	"syscall/js"
)

var ErrNoClipboard = errors.New("navigator.clipboard not available (needs a secure context)")

// Clipboard is navigator.clipboard.
type Clipboard struct{}

func navigatorClipboard() (js.Value, error) {
	cb := js.Global().Get("navigator").Get("clipboard")
	if !cb.Truthy() {
		return cb, ErrNoClipboard
	}
	return cb, nil
}

func (Clipboard) ReadText(ctx context.Context) (string, error) {
	cb, err := navigatorClipboard()
	if err != nil {
		return "", err
	}
	v, err := await(ctx, cb.Call("readText"))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (Clipboard) WriteText(ctx context.Context, text string) error {
	cb, err := navigatorClipboard()
	if err != nil {
		return err
	}
	_, err = await(ctx, cb.Call("writeText", text))
	return err
}

type settled struct {
	v   js.Value
	err error
}

func firstArg(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

// await blocks the calling goroutine, never a JS callback, until promise
// settles or ctx is done.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	ch := make(chan settled, 1)
	then := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{v: firstArg(args)}
		return nil
	})
	catch := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{err: js.Error{Value: firstArg(args)}}
		return nil
	})
	release := func() {
		then.Release()
		catch.Release()
	}
	promise.Call("then", then, catch)
	select {
	case r := <-ch:
		release()
		return r.v, r.err
	case <-ctx.Done():
		// The promise still calls back later, release only then.
		go func() {
			<-ch
			release()
		}()
		return js.Undefined(), ctx.Err()
	}
}

// SelectedText is the text of the page's first selection range, ok as soon
// as a range exists even if collapsed.
func SelectedText() (string, bool) {
	sel := js.Global().Call("getSelection")
	if !present(sel) || sel.Get("rangeCount").Int() == 0 {
		return "", false
	}
	text := sel.Call("getRangeAt", 0).Call("toString").String()
	return text, true
}
