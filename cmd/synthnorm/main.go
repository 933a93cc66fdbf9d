// Command synthnorm rewrites a recorded synth trace so two traces of
// logically equivalent runs can be compared with a plain diff: object
// IDs are remapped to small first-seen indices, timestamps are removed,
// and hex-encoded doubles can optionally be decoded for readability.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tracekit/synthnorm/internal/config"
	"github.com/tracekit/synthnorm/internal/document"
	"github.com/tracekit/synthnorm/internal/idmap"
	"github.com/tracekit/synthnorm/internal/trace"
)

const version = "0.1.0"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("synthnorm %s\n", version)
		os.Exit(0)
	}
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "synthnorm: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := flag.NewFlagSet("synthnorm", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: synthnorm [flags] [infile [outfile]]")
		fs.PrintDefaults()
	}
	convert := fs.Bool("convert-number", cfg.ConvertNumber,
		"decode number values from their hex bit pattern to a readable decimal (lossy)")
	indent := fs.Int("indent", cfg.Indent, "output indentation width")
	idmapPath := fs.String("idmap", cfg.IDMapPath,
		"record the identifier remap table to this SQLite file")
	runName := fs.String("run", "",
		"run name for the idmap record (defaults to the input file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	rest := fs.Args()
	if len(rest) > 2 {
		fs.Usage()
		return fmt.Errorf("expected at most 2 positional arguments, got %d", len(rest))
	}

	var in io.Reader = os.Stdin
	inName := "stdin"
	if len(rest) >= 1 && rest[0] != "-" {
		f, err := os.Open(rest[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
		inName = filepath.Base(rest[0])
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", inName, err)
	}

	doc, err := document.Parse(data)
	if err != nil {
		return err
	}

	norm, err := trace.NormalizeDocument(doc, *convert)
	if err != nil {
		return err
	}

	out, err := document.Render(doc, *indent)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	// The output destination is only opened once the full document has
	// rendered, so a failed run never leaves a partial file behind.
	w := os.Stdout
	if len(rest) == 2 && rest[1] != "-" {
		f, err := os.Create(rest[1])
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if *idmapPath != "" {
		name := *runName
		if name == "" {
			name = inName
		}
		store, err := idmap.Open(*idmapPath)
		if err != nil {
			return fmt.Errorf("open idmap store: %w", err)
		}
		defer store.Close()
		if err := store.RecordRun(name, norm.Assignments()); err != nil {
			return err
		}
		logger.Info("recorded remap table", "run", name, "path", *idmapPath)
	}

	logger.Debug("normalized trace",
		"input", inName,
		"events", len(doc.Trace),
		"identifiers", len(norm.Assignments()),
	)
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
