// Native webterm client: the raw terminal keys are translated and sent to
// a webterm session over a websocket, the grid follows the window size.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/webterm"
	"fortio.org/webterm/native"
	"github.com/google/uuid"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	urlFlag := flag.String("url", "ws://localhost:8080/session/",
		"Session websocket `url`, the session id is appended when it ends with /")
	dryRunFlag := flag.Bool("dry-run", false, "Print the messages instead of connecting")
	configFlag := flag.String("config", "", "TOML config `file` for the sizing policy")
	marginFlag := flag.Float64("margin", 0, "Margin in pixels (terminals have none, default 0)")
	layoutFlag := flag.String("layout", "padding", "Layout policy: padding or height")
	fontSizeFlag := flag.Float64("font-size", native.DefaultFontSize,
		"Font size in points, to derive cell pixels when the terminal doesn't report them")
	dpiFlag := flag.Float64("dpi", native.DefaultDPI, "Screen dpi for -font-size")
	historyFlag := flag.Int("history", 0, "Number of typed characters to keep and log on exit")
	idFlag := flag.String("id", "", "Session id, a new uuid when empty")
	cli.ArgsHelp = "\nctrl-] to quit"
	cli.Main()
	cfg, err := loadConfig(*configFlag, func(c *webterm.Config) error {
		set := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if *configFlag == "" || set["margin"] {
			c.Margin = *marginFlag
		}
		if set["layout"] {
			l, err := webterm.ParseLayout(*layoutFlag)
			if err != nil {
				return err
			}
			c.Layout = l
		}
		if set["history"] {
			c.History = *historyFlag
		}
		return c.Validate()
	})
	if err != nil {
		return log.FErrf("Config error: %v", err)
	}
	id := *idFlag
	if id == "" {
		id = uuid.NewString()
	}
	face, err := native.NewGoMonoMeasurer(*fontSizeFlag, *dpiFlag)
	if err != nil {
		return log.FErrf("Error loading font: %v", err)
	}
	defer face.Close()
	t, err := native.Open(native.DefaultEscapeTimeout)
	if err != nil {
		return log.FErrf("Error opening terminal: %v", err)
	}
	defer t.Close()
	if t.IsTerminal() {
		t.LoggerSetup()
	}
	cells, err := webterm.ProbeCells(native.Measurers{native.WinsizeMeasurer{Fd: t.Fd()}, face},
		cfg.ProbeGlyph, cfg.ProbeCount)
	if err != nil {
		return log.FErrf("Unable to measure cells: %v", err)
	}
	var ch webterm.Channel
	remoteDone := make(chan error, 1)
	if *dryRunFlag {
		ch = native.WriterChannel{Out: &native.CRLFWriter{Out: os.Stdout}}
	} else {
		url := *urlFlag
		if strings.HasSuffix(url, "/") {
			url += id
		}
		dialCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ws, err := native.Dial(dialCtx, url)
		cancel()
		if err != nil {
			return log.FErrf("Unable to connect: %v", err)
		}
		defer ws.Close()
		ch = ws
		go func() {
			remoteDone <- ws.CopyTo(t.Out)
		}()
	}
	s := webterm.NewSession(id, webterm.SessionOptions{
		Config:    cfg,
		Channel:   ch,
		Activity:  t,
		Surface:   &native.PixelSurface{Fd: t.Fd(), Activity: t, Margin: cfg.Margin, Fallback: cells},
		Selection: webterm.SelectionFunc(native.PrimarySelection),
		Clipboard: &native.SystemClipboard{OSC52: t.Out},
	})
	defer s.Close()
	if err = s.Start(cells); err != nil {
		return log.FErrf("Unable to size the session: %v", err)
	}
	err = run(t, s, remoteDone)
	if s.History != nil {
		log.Infof("Typed: %q", s.History.String())
	}
	if err != nil {
		return log.FErrf("Session %s ended: %v", id, err)
	}
	log.Infof("Session %s done", id)
	return 0
}

func loadConfig(path string, override func(c *webterm.Config) error) (webterm.Config, error) {
	cfg, err := webterm.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	err = override(&cfg)
	return cfg, err
}

// run is the single loop that touches the session's sizer, key events and
// resize signals are both funneled here.
func run(t *native.Terminal, s *webterm.Session, remoteDone <-chan error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, errc := t.Events(ctx)
	resize := make(chan os.Signal, 1)
	native.NotifyResize(resize)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				err := <-errc
				if err == nil || errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			switch ev.Kind {
			case native.FocusIn:
				_ = s.Resize()
			case native.FocusOut:
			case native.KeyPress:
				if ev.Key == native.QuitKey {
					return nil
				}
				if !s.HandleKey(ev.Key) {
					log.LogVf("Unhandled key %+v", ev.Key)
				}
			}
		case <-resize:
			_ = s.Resize()
		case err := <-remoteDone:
			if err != nil {
				return fmt.Errorf("remote: %w", err)
			}
			return nil
		}
	}
}
