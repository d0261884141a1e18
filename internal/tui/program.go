package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/metcalfc/pacer/internal/playback"
	"github.com/metcalfc/pacer/internal/source"
)

// Run shows the reader for docID until the user quits.
func Run(ctx context.Context, ctrl *playback.Controller, docID string, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, ctrl, docID, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	ctrl.OnEvent(func(ev playback.Event) {
		p.Send(eventMsg{ev})
	})

	if opts.Source != "" && opts.Reload != nil {
		go func() {
			err := source.Watch(ctx, opts.Source, func() {
				p.Send(sourceChangedMsg{})
			})
			if err != nil {
				log.Warn("not watching source", "path", opts.Source, "err", err)
			}
		}()
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
