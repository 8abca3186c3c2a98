package webterm

import (
	"context"
	"errors"
	"sync"
)

// Clipboard is the system clipboard as seen by the front-end. Both calls may
// block (the browser resolves them asynchronously) and should honor ctx
// cancellation where the platform allows it.
type Clipboard interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
}

// Selection gives access to the user's current text selection.
// ok is false when nothing is selected.
type Selection interface {
	SelectedText() (text string, ok bool)
}

// SelectionFunc adapts a function to the Selection interface.
type SelectionFunc func() (string, bool)

func (f SelectionFunc) SelectedText() (string, bool) {
	return f()
}

// ClipboardTask is an in flight clipboard read or write. It completes exactly
// once with either the text (empty for writes) or an error.
type ClipboardTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	ctx    context.Context

	mu       sync.Mutex
	text     string
	err      error
	canceled bool
}

func newClipboardTask(ctx context.Context) *ClipboardTask {
	nctx, cancel := context.WithCancel(ctx)
	return &ClipboardTask{
		cancel: cancel,
		done:   make(chan struct{}),
		ctx:    nctx,
	}
}

// StartPaste starts reading the clipboard text.
func StartPaste(ctx context.Context, clip Clipboard) *ClipboardTask {
	t := newClipboardTask(ctx)
	go func() {
		text, err := clip.ReadText(t.ctx)
		t.complete(text, err)
	}()
	return t
}

// StartCopy starts writing text to the clipboard.
func StartCopy(ctx context.Context, clip Clipboard, text string) *ClipboardTask {
	t := newClipboardTask(ctx)
	go func() {
		err := clip.WriteText(t.ctx, text)
		t.complete("", err)
	}()
	return t
}

func (t *ClipboardTask) complete(text string, err error) {
	t.mu.Lock()
	if err == nil && t.ctx.Err() != nil {
		// Platform finished anyway, but nobody wants the result anymore.
		err = t.ctx.Err()
	}
	t.text, t.err = text, err
	t.canceled = err != nil && errors.Is(err, context.Canceled)
	t.mu.Unlock()
	t.cancel()
	close(t.done)
}

// Done is closed once the task has completed.
func (t *ClipboardTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until completion and returns the result.
func (t *ClipboardTask) Wait() (string, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text, t.err
}

// Cancel abandons the task, its result (once it completes) will be context.Canceled.
func (t *ClipboardTask) Cancel() {
	t.cancel()
}

// Canceled is true if the task completed because it was canceled.
func (t *ClipboardTask) Canceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canceled
}
