package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/metcalfc/pacer/internal/library"
	"github.com/metcalfc/pacer/internal/pacing"
	"github.com/metcalfc/pacer/internal/segment"
)

var (
	libraryCmd = &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage saved documents and reading positions",
		Args:    cobra.NoArgs,
	}

	libraryListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd, func(ctx context.Context, store library.Store) error {
				docs, err := store.List(ctx)
				if err != nil {
					return err
				}
				printDocuments(cmd.OutOrStdout(), docs, settings.WPM)
				return nil
			})
		},
	}

	libraryFindCmd = &cobra.Command{
		Use:   "find QUERY",
		Short: "Fuzzy search document titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(ctx context.Context, store library.Store) error {
				docs, err := library.Find(ctx, store, args[0])
				if err != nil {
					return err
				}
				printDocuments(cmd.OutOrStdout(), docs, settings.WPM)
				return nil
			})
		},
	}

	libraryRemoveCmd = &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Forget a document and its reading position",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(ctx context.Context, store library.Store) error {
				doc, err := lookupDocument(ctx, store, args[0])
				if err != nil {
					return err
				}
				if err := store.Remove(ctx, doc.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", doc.Title)
				return nil
			})
		},
	}

	libraryRenameCmd = &cobra.Command{
		Use:   "rename ID TITLE",
		Short: "Change a document title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(ctx context.Context, store library.Store) error {
				doc, err := lookupDocument(ctx, store, args[0])
				if err != nil {
					return err
				}
				title := strings.Join(args[1:], " ")
				if err := store.Rename(ctx, doc.ID, title); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", doc.Title, title)
				return nil
			})
		},
	}

	libraryResetCmd = &cobra.Command{
		Use:   "reset ID",
		Short: "Start a document over from the beginning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(ctx context.Context, store library.Store) error {
				doc, err := lookupDocument(ctx, store, args[0])
				if err != nil {
					return err
				}
				if err := store.SaveOffsets(ctx, doc.ID, 0, 0); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %s\n", doc.Title)
				return nil
			})
		},
	}
)

func init() {
	libraryCmd.AddCommand(libraryListCmd, libraryFindCmd, libraryRemoveCmd, libraryRenameCmd, libraryResetCmd)
}

func withLibrary(cmd *cobra.Command, fn func(context.Context, library.Store) error) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck
	return fn(cmd.Context(), store)
}

// lookupDocument resolves a full ID or a unique ID prefix.
func lookupDocument(ctx context.Context, store library.Store, ref string) (library.Document, error) {
	doc, err := store.Get(ctx, ref)
	if err == nil || !errors.Is(err, library.ErrNotFound) {
		return doc, err
	}

	docs, err := store.List(ctx)
	if err != nil {
		return library.Document{}, err
	}
	var matches []library.Document
	for _, d := range docs {
		if strings.HasPrefix(d.ID, ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return library.Document{}, fmt.Errorf("%w: %s", library.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return library.Document{}, fmt.Errorf("id prefix %q matches %d documents", ref, len(matches))
}

const shortID = 8

// printDocuments lists docs with an estimated reading time at wpm.
func printDocuments(w io.Writer, docs []library.Document, wpm int) {
	if len(docs) == 0 {
		fmt.Fprintln(w, faint("No documents."))
		return
	}
	for _, d := range docs {
		id := d.ID
		if len(id) > shortID {
			id = id[:shortID]
		}
		words := segment.Words(d.Text)
		length := "?"
		if est, err := pacing.Estimate(wpm, words, segment.WordCount); err == nil {
			length = est.Round(time.Minute).String()
		}
		fmt.Fprintf(w, "%s  %s\n", keyword(id), d.Title)
		fmt.Fprintln(w, faint(fmt.Sprintf("          %s words (%s at %d WPM), word unit %s, sentence unit %s, added %s",
			humanize.Comma(int64(len(words))),
			length,
			wpm,
			humanize.Comma(int64(d.WordIndex)),
			humanize.Comma(int64(d.SentenceIndex)),
			humanize.Time(d.AddedAt),
		)))
	}
}
