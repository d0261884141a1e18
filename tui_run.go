//go:build !gui

package main

import (
	"context"

	"github.com/metcalfc/pacer/internal/library"
	"github.com/metcalfc/pacer/internal/playback"
	"github.com/metcalfc/pacer/internal/tui"
)

func runReader(ctx context.Context, ctrl *playback.Controller, doc library.Document, reload func(context.Context) error) error {
	return tui.Run(ctx, ctrl, doc.ID, tui.Options{
		Title:     doc.Title,
		Source:    doc.Source,
		Reload:    reload,
		AutoStart: true,
	})
}
