package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/insightdelivered/statement-extractor/internal/api"
	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/logger"
	"github.com/insightdelivered/statement-extractor/internal/parser"
	"github.com/insightdelivered/statement-extractor/internal/pipeline"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

const version = "2.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("statement-extractor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workersFlag := fs.Int("workers", 0, "Documents processed concurrently (default from STATEMENT_WORKERS)")
	extFlag := fs.String("ext", "", "Comma-separated document types to look for in directories, e.g. .pdf,.txt")
	logLevelFlag := fs.String("log-level", "", "Log level: debug, info, warn, error")
	debugFlag := fs.Bool("debug", false, "Log the verdict for every line (implies -log-level=debug)")
	serveFlag := fs.Bool("serve", false, "Run the HTTP API instead of converting files")
	versionFlag := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `%s
Extracts transaction records from statement documents into a CSV file.

Usage:
  statement-extractor [flags] <input> <output.csv>
  statement-extractor -serve

<input> is a single statement or a directory searched recursively.

Flags:
`, color.New(color.Bold).Sprint("Statement Extractor"))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "statement-extractor v%s\n", version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	if *extFlag != "" {
		cfg.Extensions = strings.Split(*extFlag, ",")
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	if *debugFlag {
		cfg.LogLevel = "debug"
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Out: stderr})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	registry := extractor.NewRegistry(cfg.Pdftotext)

	if *serveFlag {
		return serve(ctx, cfg, registry, stderr)
	}

	if fs.NArg() < 2 {
		fs.Usage()
		return 1
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	docs, err := pipeline.Discover(inputPath, registry.Restrict(cfg.Extensions).Supports)
	if errors.Is(err, extractor.ErrUnsupported) {
		// A single named document only needs an extractor, not a listed extension.
		docs, err = pipeline.Discover(inputPath, registry.Supports)
	}
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	p := parser.New()
	p.Debug = *debugFlag
	runner := &pipeline.Runner{Extractor: registry, Parser: p, Workers: cfg.Workers}
	res, err := runner.Run(ctx, docs)
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := (&writer.CSVWriter{}).WriteToFile(outputPath, res.Records); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	for _, f := range res.Failures {
		color.New(color.FgYellow).Fprintf(stderr, "Skipped %s: %v\n", f.Path, f.Err)
	}
	color.New(color.FgGreen).Fprintf(stdout, "Saved %d rows to %s\n", len(res.Records), outputPath)
	return 0
}

func serve(ctx context.Context, cfg config.Config, registry extractor.Registry, stderr io.Writer) int {
	log := logger.FromContext(ctx)

	h, err := api.NewHandler(api.Options{
		Version:      version,
		Extractors:   registry,
		CacheEntries: cfg.CacheSize,
		Logger:       log,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer h.Close()

	app := api.NewApp(h, cfg.UploadMB)
	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}
