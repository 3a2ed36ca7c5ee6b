package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mind-engage/h5pimporter/internal/config"
	"github.com/mind-engage/h5pimporter/internal/content"
	"github.com/mind-engage/h5pimporter/internal/db"
	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/importer"
	"github.com/mind-engage/h5pimporter/internal/logging"
	"github.com/mind-engage/h5pimporter/internal/preview"
	"github.com/mind-engage/h5pimporter/internal/preview/tui"
	syncx "github.com/mind-engage/h5pimporter/internal/sync"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	in          string
	previewPath string
	edit        bool
	contentType string
	out         string
	persist     bool
	title       string
	author      string
	logLevel    string
}

// editFunc opens the grid editor; swapped out in tests.
var editFunc = func(ed *preview.Editor) (bool, error) { return tui.Run(ed) }

func usage(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  h5pimport -in quiz.csv [-edit] [-out quiz.json] [-persist]")
	fmt.Fprintln(w, "  h5pimport -preview rows.json [-in quiz.csv] [-out quiz.json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flags.SetOutput(w)
	flags.PrintDefaults()
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	flags := flag.NewFlagSet("h5pimport", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&opts.in, "in", "", "CSV or XLSX file to import")
	flags.StringVar(&opts.previewPath, "preview", "", "edited preview rows (JSON array of row objects)")
	flags.BoolVar(&opts.edit, "edit", false, "review and edit the rows in a terminal grid before building")
	flags.StringVar(&opts.contentType, "type", h5p.DefaultTypeID, "content type id")
	flags.StringVar(&opts.out, "out", "", "write the params document here instead of stdout")
	flags.BoolVar(&opts.persist, "persist", false, "store content and node in the configured database")
	flags.StringVar(&opts.title, "title", "", "content title (default \"Imported Quiz\")")
	flags.StringVar(&opts.author, "author", os.Getenv("USER"), "author display name")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug|info|warn|error")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(stdout, flags)
			return exitOK
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		usage(stderr, flags)
		return exitUsage
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		return exitUsage
	}
	if opts.in == "" && opts.previewPath == "" {
		fmt.Fprintln(stderr, "one of -in or -preview is required")
		usage(stderr, flags)
		return exitUsage
	}
	if opts.edit && opts.in == "" {
		fmt.Fprintln(stderr, "-edit needs -in")
		return exitUsage
	}

	if err := importFile(context.Background(), opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Import failed: %v\n", err)
		return exitError
	}
	return exitOK
}

func importFile(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	var sub importer.Submission
	sub.ContentType = opts.contentType
	sub.Title = opts.title
	sub.Author = opts.author

	if opts.in != "" {
		data, err := os.ReadFile(opts.in)
		if err != nil {
			return err
		}
		sub.File = &importer.Upload{Filename: filepath.Base(opts.in), Data: data}
	}
	if opts.previewPath != "" {
		data, err := os.ReadFile(opts.previewPath)
		if err != nil {
			return err
		}
		sub.PreviewData = string(data)
	}

	if opts.edit {
		rows, err := importer.PreviewRows(sub.File)
		if err != nil {
			return err
		}
		ed, err := preview.NewEditor(rows)
		if err != nil {
			return err
		}
		if ed.Grid().Empty() {
			return importer.ErrNoData
		}
		ok, err := editFunc(ed)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("aborted")
		}
		sub.PreviewData = ed.Handoff()
	}

	svc, closeFn, err := newService(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Import(ctx, sub)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	doc := res.Parameters + "\n"
	if opts.out != "" {
		if err := os.WriteFile(opts.out, []byte(doc), 0o644); err != nil {
			return err
		}
	} else if !opts.persist {
		_, _ = io.WriteString(stdout, doc)
	}
	if opts.persist {
		fmt.Fprintf(stdout, "%s (content %d, node %d, %d questions)\n", res.Message, res.ContentID, res.NodeID, res.Questions)
	}
	return nil
}

// newService wires the import pipeline. Without -persist the records go to
// an in-memory store that is dropped on exit.
func newService(ctx context.Context, opts options) (*importer.Service, func(), error) {
	noop := func() {}
	if !opts.persist {
		log, err := logging.New(logging.Options{Level: opts.logLevel})
		if err != nil {
			return nil, noop, err
		}
		registry := h5p.NewDefaultRegistry(log)
		store := content.NewMemoryStore()
		for _, t := range registry.Types() {
			_, _ = store.EnsureLibrary(ctx, t.Library, t.Label)
		}
		return importer.NewService(registry, store, log), noop, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, noop, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(logging.Options{Level: opts.logLevel, File: cfg.LogFile})
	if err != nil {
		return nil, noop, err
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, noop, fmt.Errorf("db open: %w", err)
	}
	registry := h5p.NewDefaultRegistry(log)
	store := content.NewSQLStore(dbh)
	if cfg.SeedLibraries {
		for _, t := range registry.Types() {
			if _, err := store.EnsureLibrary(openCtx, t.Library, t.Label); err != nil {
				_ = dbh.Close()
				return nil, noop, err
			}
		}
	}
	svc := importer.NewService(registry, store, log)
	svc.Events = syncx.NewEventRepo(dbh, "")
	svc.DefaultLanguage = cfg.DefaultLanguage
	return svc, func() {
		_ = log.Sync()
		_ = dbh.Close()
	}, nil
}

