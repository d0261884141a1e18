// Package main provides the entry point for the pacer CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/metcalfc/pacer/internal/config"
	"github.com/metcalfc/pacer/internal/define"
	"github.com/metcalfc/pacer/internal/library"
	"github.com/metcalfc/pacer/internal/playback"
	"github.com/metcalfc/pacer/internal/source"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errNoText = errors.New("no text to read")

var (
	configFile string
	fresh      bool
	settings   = config.Default()

	rootCmd = &cobra.Command{
		Use:   "pacer [FILE]",
		Short: "Read text one word or sentence at a time",
		Long: paragraph(fmt.Sprintf("\nRead plain text, Markdown or EPUB %s and pick up where you left off.\n\nSupported formats: %s.",
			keyword("one unit at a time"), strings.Join(source.SupportedFormats(), ", "))),
		Example: paragraph("pacer book.epub\npacer -w 450 -m sentences -g 2 notes.md\ncat article.txt | pacer"),
		SilenceUsage:      true,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: loadSettings,
		RunE:              execute,
	}
)

func loadSettings(*cobra.Command, []string) error {
	s, err := config.Load(viper.GetViper(), configFile)
	if err != nil {
		return err
	}
	settings = s
	return nil
}

func execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	doc, err := readDocument(args)
	if err != nil {
		return err
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	doc, err = store.Add(ctx, doc)
	if err != nil {
		return fmt.Errorf("unable to save document: %w", err)
	}
	if fresh {
		if err := store.SaveOffsets(ctx, doc.ID, 0, 0); err != nil {
			return err
		}
	}
	log.Debug("document ready", "id", doc.ID, "title", doc.Title, "source", doc.Source)

	ctrl, err := newController(ctx, store)
	if err != nil {
		return err
	}
	defer ctrl.Close(context.WithoutCancel(ctx)) //nolint:errcheck

	var reload func(context.Context) error
	if doc.Source != "" {
		id, path := doc.ID, doc.Source
		reload = func(ctx context.Context) error {
			d, err := documentFromFile(path)
			if err != nil {
				return err
			}
			d.ID = id
			_, err = store.Add(ctx, d)
			return err
		}
	}
	return runReader(ctx, ctrl, doc, reload)
}

// readDocument reads the file named in args, or stdin when it is not a
// terminal.
func readDocument(args []string) (library.Document, error) {
	if len(args) == 1 && args[0] != "-" {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return library.Document{}, fmt.Errorf("unable to get absolute path: %w", err)
		}
		return documentFromFile(path)
	}

	if len(args) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		return library.Document{}, errors.New("no input provided: pass a file or pipe text to stdin (try pacer -h)")
	}
	text, err := source.ReadText(os.Stdin)
	if err != nil {
		return library.Document{}, fmt.Errorf("unable to read stdin: %w", err)
	}
	return documentFromText(text)
}

func documentFromText(text string) (library.Document, error) {
	if strings.TrimSpace(text) == "" {
		return library.Document{}, errNoText
	}
	return library.Document{ID: library.HashText(text), Text: text}, nil
}

func documentFromFile(path string) (library.Document, error) {
	text, err := source.Extract(path)
	if err != nil {
		return library.Document{}, fmt.Errorf("unable to read file %q: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return library.Document{}, fmt.Errorf("%s: %w", path, errNoText)
	}
	id, err := library.HashFile(path)
	if err != nil {
		return library.Document{}, err
	}
	return library.Document{ID: id, Title: source.Title(path), Source: path, Text: text}, nil
}

func openLibrary() (library.Store, error) {
	store, err := library.Open(settings.Store.Backend, settings.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open library: %w", err)
	}
	return store, nil
}

// newDefiner returns nil when lookups are disabled.
func newDefiner() (*define.Client, error) {
	if !settings.Define.Enabled {
		return nil, nil
	}
	timeout, err := settings.DefineTimeout()
	if err != nil {
		return nil, err
	}
	return define.New(settings.Define.Endpoint,
		define.WithRate(settings.Define.Rate),
		define.WithTimeout(timeout),
	), nil
}

func newController(ctx context.Context, store playback.Store) (*playback.Controller, error) {
	cfg, err := settings.Playback()
	if err != nil {
		return nil, err
	}

	opts := []playback.Option{
		playback.WithLogger(log.Default().WithPrefix("playback")),
		playback.WithSegmenter(settings.Segmenter()),
	}
	definer, err := newDefiner()
	if err != nil {
		return nil, err
	}
	if definer != nil {
		opts = append(opts, playback.WithDefiner(definer))
	}

	ctrl := playback.New(store, opts...)
	if err := ctrl.Configure(ctx, cfg); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pacer {{.Version}} (commit: %s, built: %s)\n", commit, date))
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: pacer.yml in the config directory)")
	rootCmd.Flags().IntP("wpm", "w", 0, "words per minute")
	rootCmd.Flags().StringP("mode", "m", "", "group units by words or sentences")
	rootCmd.Flags().IntP("group", "g", 0, "words or sentences per unit")
	rootCmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the saved reading position")

	// Config bindings
	_ = viper.BindPFlag("wpm", rootCmd.Flags().Lookup("wpm"))
	_ = viper.BindPFlag("mode", rootCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("group_size", rootCmd.Flags().Lookup("group"))

	rootCmd.AddCommand(configCmd, manCmd, libraryCmd, defineCmd)
}
