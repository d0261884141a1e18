//go:build gui

package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/metcalfc/pacer/internal/define"
	"github.com/metcalfc/pacer/internal/library"
	"github.com/metcalfc/pacer/internal/playback"
	"github.com/metcalfc/pacer/internal/segment"
	"github.com/metcalfc/pacer/internal/tui"
)

const (
	minWPM  = 100
	maxWPM  = 1500
	wpmStep = 50
)

// window owns the fyne widgets. Its fields are only touched on the fyne
// goroutine; controller calls run on their own goroutines.
type window struct {
	ctx   context.Context
	ctrl  *playback.Controller
	app   fyne.App
	win   fyne.Window
	docID string
	title string

	cfg      playback.Config
	status   playback.Status
	fontSize float32

	statusLabel *widget.Label
	noteLabel   *widget.Label
	unit        *fyne.Container
}

func runReader(ctx context.Context, ctrl *playback.Controller, doc library.Document, _ func(context.Context) error) error {
	a := app.New()
	w := &window{
		ctx:         ctx,
		ctrl:        ctrl,
		app:         a,
		win:         a.NewWindow("pacer - " + doc.Title),
		docID:       doc.ID,
		title:       doc.Title,
		cfg:         ctrl.Config(),
		status:      ctrl.Status(),
		fontSize:    72,
		statusLabel: widget.NewLabel(""),
		noteLabel:   widget.NewLabel("SPACE: start/pause  ↑/↓: speed  ←/→: step  TAB: mode  1-5: size  +/-: font  D: define  C: copy  R: restart  F: fullscreen  Q: quit"),
		unit:        container.NewStack(),
	}
	w.statusLabel.Alignment = fyne.TextAlignCenter
	w.noteLabel.Alignment = fyne.TextAlignCenter
	w.noteLabel.Wrapping = fyne.TextWrapWord

	ctrl.OnEvent(func(ev playback.Event) {
		fyne.Do(func() { w.show(ev.Status) })
	})

	w.win.SetContent(container.NewBorder(w.statusLabel, w.noteLabel, nil, nil, w.unit))
	w.win.Resize(fyne.NewSize(800, 600))
	w.win.Canvas().SetOnTypedKey(w.typedKey)
	w.win.Canvas().SetOnTypedRune(w.typedRune)

	done := make(chan struct{})
	var closeOnce sync.Once
	w.win.SetOnClosed(func() {
		closeOnce.Do(func() { close(done) })
	})

	// Redraw when the window width changes so the focus letter stays centered.
	go func() {
		var lastWidth float32 = 800
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fyne.Do(func() {
					if width := w.win.Canvas().Size().Width; width > 0 && width != lastWidth {
						lastWidth = width
						w.redraw()
					}
				})
			}
		}
	}()

	// GUI starts paused.
	w.redraw()
	w.win.ShowAndRun()
	closeOnce.Do(func() { close(done) })

	return ctrl.Stop(context.WithoutCancel(ctx))
}

// do runs a controller command off the fyne goroutine and reports errors.
func (w *window) do(fn func() error) {
	go func() {
		err := fn()
		if err == nil || errors.Is(err, playback.ErrNotRunning) || errors.Is(err, playback.ErrNoSession) {
			return
		}
		log.Warn("reader command failed", "err", err)
		fyne.Do(func() { w.setNote(err.Error()) })
	}()
}

func (w *window) configure(cfg playback.Config) {
	w.cfg = cfg
	w.do(func() error { return w.ctrl.Configure(w.ctx, cfg) })
	w.redraw()
}

func (w *window) typedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeySpace:
		if w.status.Busy {
			w.do(func() error { return w.ctrl.Pause(w.ctx) })
		} else {
			w.do(func() error { return w.ctrl.Start(w.ctx, w.docID) })
		}

	case fyne.KeyUp:
		if w.cfg.WordsPerMinute < maxWPM {
			cfg := w.cfg
			cfg.WordsPerMinute = min(cfg.WordsPerMinute+wpmStep, maxWPM)
			w.configure(cfg)
		}

	case fyne.KeyDown:
		if w.cfg.WordsPerMinute > minWPM {
			cfg := w.cfg
			cfg.WordsPerMinute = max(cfg.WordsPerMinute-wpmStep, minWPM)
			w.configure(cfg)
		}

	case fyne.KeyLeft:
		w.do(w.ctrl.StepBackward)

	case fyne.KeyRight:
		w.do(w.ctrl.StepForward)

	case fyne.KeyTab:
		cfg := w.cfg
		if cfg.Mode == segment.WordGroups {
			cfg.Mode = segment.SentenceGroups
		} else {
			cfg.Mode = segment.WordGroups
		}
		w.configure(cfg)

	case fyne.KeyF:
		w.win.SetFullScreen(!w.win.FullScreen())

	case fyne.KeyQ, fyne.KeyEscape:
		w.win.Close()
	}
}

func (w *window) typedRune(r rune) {
	switch r {
	case 'r', 'R':
		w.do(func() error { return w.ctrl.Reset(w.ctx) })

	case '+', '=':
		if w.fontSize < 200 {
			w.fontSize += 5
			w.redraw()
		}

	case '-':
		if w.fontSize > 20 {
			w.fontSize -= 5
			w.redraw()
		}

	case '1', '2', '3', '4', '5':
		if size := int(r - '0'); size != w.cfg.GroupSize {
			cfg := w.cfg
			cfg.GroupSize = size
			w.configure(cfg)
		}

	case 'd', 'D':
		go func() {
			def, err := w.ctrl.Define(w.ctx)
			switch {
			case errors.Is(err, playback.ErrDefineUnavailable):
				def = "Pause on a single word to look it up."
			case err != nil && !errors.Is(err, define.ErrNotFound):
				def = err.Error()
			case def == "":
				def = "No definition found."
			}
			fyne.Do(func() { w.setNote(def) })
		}()

	case 'c', 'C':
		if w.status.Unit != "" {
			w.app.Clipboard().SetContent(w.status.Unit)
			w.setNote("Copied to clipboard.")
		}
	}
}

func (w *window) show(s playback.Status) {
	w.status = s
	w.redraw()
}

func (w *window) setNote(note string) {
	w.noteLabel.SetText(note)
}

func (w *window) redraw() {
	current, total := w.status.Progress()
	var tag string
	switch w.status.State {
	case playback.StateIdle:
		tag = " [READY]"
	case playback.StatePaused:
		tag = " [PAUSED]"
	case playback.StateCompleted:
		tag = " [DONE]"
	}
	w.statusLabel.SetText(fmt.Sprintf("%s | %d/%d | %d WPM | %s × %d | Font: %.0f%s",
		w.title, current, total, w.cfg.WordsPerMinute, w.cfg.Mode, w.cfg.GroupSize, w.fontSize, tag))

	width := w.win.Canvas().Size().Width
	if width <= 0 {
		width = 800
	}

	var display fyne.CanvasObject
	unit := w.status.Unit
	switch {
	case w.status.State == playback.StateCompleted:
		msg := "Reading complete!"
		if w.status.Elapsed > 0 {
			msg += " " + w.status.Elapsed.Round(time.Second).String()
		}
		display = centeredLabel(msg)
	case unit == "":
		display = centeredLabel("Press space to start")
	case w.status.Config.Mode == segment.WordGroups && segment.WordCount(unit) == 1:
		display = createWordDisplay(unit, w.fontSize, width)
	default:
		label := widget.NewLabelWithStyle(unit, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		label.Wrapping = fyne.TextWrapWord
		display = container.NewCenter(label)
	}

	w.unit.Objects = []fyne.CanvasObject{display}
	w.unit.Refresh()
}

func centeredLabel(text string) fyne.CanvasObject {
	return container.NewCenter(widget.NewLabelWithStyle(text, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
}

func createWordDisplay(word string, fontSize float32, windowWidth float32) *fyne.Container {
	runes := []rune(word)
	orp := tui.ORPPosition(word)

	before := string(runes[:orp])
	focus := string(runes[orp])
	after := string(runes[orp+1:])

	beforeText := canvas.NewText(before, color.White)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(focus, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	focusText.TextSize = fontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(after, color.White)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	// Horizontal: anchor ORP at center
	centerX := windowWidth / 2
	beforeX := max(centerX-beforeText.MinSize().Width, 0)
	afterX := centerX + focusText.MinSize().Width

	c := &fyne.Container{
		Layout:  &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{beforeText, focusText, afterText},
	}
	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(centerX, 0))
	afterText.Move(fyne.NewPos(afterX, 0))
	return c
}

// centerVerticalLayout centers its objects vertically and keeps the X
// positions set by createWordDisplay.
type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, maxHeight(objects))
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	y := max((size.Height-maxHeight(objects))/2, 0)
	for _, o := range objects {
		o.Move(fyne.NewPos(o.Position().X, y))
		o.Resize(o.MinSize())
	}
}

func maxHeight(objects []fyne.CanvasObject) float32 {
	var h float32
	for _, o := range objects {
		h = max(h, o.MinSize().Height)
	}
	return h
}
