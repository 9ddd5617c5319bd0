// Package pipeline runs statement documents through extraction, parsing and
// deduplication.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-extractor/internal/dedup"
	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/logger"
	"github.com/insightdelivered/statement-extractor/internal/models"
	"github.com/insightdelivered/statement-extractor/internal/parser"
)

// DocumentError reports a document that could not be processed.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Runner processes a set of documents. The zero value is not usable; set
// Extractor and Parser.
type Runner struct {
	Extractor extractor.Extractor
	Parser    parser.Parser
	// Workers bounds how many documents are processed at once. Values
	// below 1 mean one.
	Workers int
}

// Result is the outcome of one run.
type Result struct {
	RunID      string
	Documents  []string
	Statements []*models.Statement // nil entries for failed documents
	Records    []models.Transaction
	Failures   []*DocumentError
	// Duplicates is how many records deduplication dropped.
	Duplicates int
}

type outcome struct {
	stmt *models.Statement
	err  *DocumentError
}

// Run processes paths concurrently and aggregates their records in the order
// of paths, so the result matches a sequential run. A failing document is
// recorded in Result.Failures and does not stop the others.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	runID := uuid.NewString()
	log := logger.FromContext(ctx).With().Str("run_id", runID).Logger()
	start := time.Now()

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]outcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stmt, err := r.processDocument(path)
			if err != nil {
				outcomes[i].err = &DocumentError{Path: path, Err: err}
				return nil
			}
			outcomes[i].stmt = stmt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      runID,
		Documents:  paths,
		Statements: make([]*models.Statement, len(paths)),
	}
	var all []models.Transaction
	for i, o := range outcomes {
		if o.err != nil {
			log.Warn().Err(o.err.Err).Str("document", o.err.Path).Msg("document failed")
			res.Failures = append(res.Failures, o.err)
			continue
		}
		res.Statements[i] = o.stmt
		log.Info().
			Str("document", o.stmt.Source).
			Int("lines", o.stmt.Lines).
			Int("year_hint", o.stmt.YearHint).
			Int("records", len(o.stmt.Transactions)).
			Msg("document parsed")
		for _, dl := range o.stmt.DebugLines {
			log.Debug().
				Str("document", o.stmt.Source).
				Int("line", dl.LineNum).
				Str("verdict", string(dl.Verdict)).
				Str("result", dl.Result).
				Msg(dl.Text)
		}
		all = append(all, o.stmt.Transactions...)
	}

	res.Records = dedup.Unique(all)
	res.Duplicates = len(all) - len(res.Records)

	log.Info().
		Int("documents", len(paths)).
		Int("failed", len(res.Failures)).
		Int("records", len(res.Records)).
		Int("duplicates", res.Duplicates).
		Dur("elapsed", time.Since(start)).
		Msg("run complete")
	return res, nil
}

func (r *Runner) processDocument(path string) (*models.Statement, error) {
	pages, err := r.Extractor.ExtractText(path)
	if err != nil {
		return nil, err
	}
	return r.Parser.Parse(path, pages)
}
