package playback

import (
	"context"
	"time"
)

// Store supplies document text and persists reading offsets. Offsets are
// unit indices, one per grouping mode.
type Store interface {
	Text(ctx context.Context, id string) (string, error)
	Offsets(ctx context.Context, id string) (word, sentence int, err error)
	SaveOffsets(ctx context.Context, id string, word, sentence int) error
}

// Definer looks up the definition of a single word. An empty string
// means no definition was found.
type Definer interface {
	Define(ctx context.Context, word string) (string, error)
}

// Waiter blocks for d or until ctx is done, returning ctx.Err() in the
// latter case.
type Waiter func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// offsets mirrors the saved per-mode unit indices of the active document.
type offsets struct {
	word     int
	sentence int
}
