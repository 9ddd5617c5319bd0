package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-extractor/internal/dedup"
	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/models"
	"github.com/insightdelivered/statement-extractor/internal/parser"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

// PageBreak separates pages in client-side extracted text.
const PageBreak = "\n---PAGE_BREAK---\n"

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success      bool               `json:"success"`
	Error        string             `json:"error,omitempty"`
	RunID        string             `json:"runId,omitempty"`
	Document     string             `json:"document,omitempty"`
	Count        int                `json:"count"`
	Transactions []Record           `json:"transactions"`
	CSV          string             `json:"csv,omitempty"`
	DebugLines   []models.DebugLine `json:"debugLines,omitempty"`
}

// Record is a transaction with amounts rendered to two decimals.
type Record struct {
	Date           string `json:"date,omitempty"`
	Description    string `json:"description,omitempty"`
	Amount         string `json:"amount"`
	Balance        string `json:"balance,omitempty"`
	Type           string `json:"type"`
	SourceDocument string `json:"sourceDocument"`
	SourceLine     string `json:"sourceLine"`
}

func newRecord(t models.Transaction) Record {
	r := Record{
		Date:           t.Date,
		Description:    t.Description,
		Amount:         t.Amount.StringFixed(2),
		Type:           string(t.Kind),
		SourceDocument: t.SourceDocument,
		SourceLine:     t.SourceLine,
	}
	if t.Balance.Valid {
		r.Balance = t.Balance.Decimal.StringFixed(2)
	}
	return r
}

// Options configures a Handler.
type Options struct {
	Version      string
	Extractors   extractor.Registry
	CacheEntries int // 0 disables the result cache
	Logger       zerolog.Logger
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	version    string
	extractors extractor.Registry
	builder    *parser.Builder
	cache      *ristretto.Cache
	log        zerolog.Logger
}

// cached is what the result cache stores per document.
type cached struct {
	records    []models.Transaction
	debugLines []models.DebugLine
}

func NewHandler(opts Options) (*Handler, error) {
	h := &Handler{
		version:    opts.Version,
		extractors: opts.Extractors,
		builder:    parser.NewBuilder(),
		log:        opts.Logger,
	}
	if opts.CacheEntries > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: int64(opts.CacheEntries) * 10,
			MaxCost:     int64(opts.CacheEntries),
			BufferItems: 64,
			// Every entry costs 1, so MaxCost is an entry count.
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		h.cache = cache
	}
	return h, nil
}

// NewApp returns a fiber app with the API routes registered.
func NewApp(h *Handler, uploadLimitMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-extractor",
		BodyLimit:             uploadLimitMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/extract", h.handleExtract)
}

// Close releases the result cache.
func (h *Handler) Close() {
	if h.cache != nil {
		h.cache.Close()
	}
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.version,
		"engine":  "fiber",
	})
}

func (h *Handler) handleExtract(c *fiber.Ctx) error {
	debug := c.FormValue("debug") == "true"
	document := "extracted-text"
	var pages []string
	var content []byte

	fh, fileErr := c.FormFile("file")
	if fileErr == nil {
		document = filepath.Base(fh.Filename)
	}

	// Pre-extracted text (client-side pdf.js) takes precedence over the upload.
	if text := c.FormValue("extractedText"); text != "" {
		pages = extractor.SplitPages(text, PageBreak)
		content = []byte(text)
	}

	if len(pages) == 0 {
		if fileErr != nil {
			return writeError(c, fiber.StatusBadRequest, "No input. Use form field 'file' or 'extractedText'.")
		}
		if !h.extractors.Supports(fh.Filename) {
			return writeError(c, fiber.StatusBadRequest,
				fmt.Sprintf("Unsupported document type. Supported: %s.", strings.Join(h.extractors.Extensions(), ", ")))
		}
		var err error
		if content, err = readUpload(fh); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
		}
	}

	key := cacheKey(document, content, debug)
	result, hit := h.lookup(key)
	if !hit {
		if pages == nil {
			var err error
			if pages, err = h.extractUpload(document, content); err != nil {
				h.log.Warn().Err(err).Str("document", document).Msg("extraction failed")
				return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Extraction failed: %v", err))
			}
		}

		p := &parser.Heuristic{Builder: h.builder, Debug: debug}
		stmt, err := p.Parse(document, pages)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
		}
		result = cached{records: dedup.Unique(stmt.Transactions), debugLines: stmt.DebugLines}
		h.store(key, result)
	}

	var csvBuf bytes.Buffer
	if err := (&writer.CSVWriter{}).Write(&csvBuf, result.records); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// Ensure transactions is never nil (nil marshals to JSON null, not [])
	records := make([]Record, 0, len(result.records))
	for _, t := range result.records {
		records = append(records, newRecord(t))
	}

	runID := uuid.NewString()
	h.log.Info().
		Str("run_id", runID).
		Str("document", document).
		Int("records", len(records)).
		Bool("cached", hit).
		Msg("extract")

	if hit {
		c.Set("X-Cache", "hit")
	} else {
		c.Set("X-Cache", "miss")
	}
	return c.JSON(ExtractResponse{
		Success:      true,
		RunID:        runID,
		Document:     document,
		Count:        len(records),
		Transactions: records,
		CSV:          csvBuf.String(),
		DebugLines:   result.debugLines,
	})
}

// extractUpload writes the upload to a temp file so the extractor sees a path
// with the right extension.
func (h *Handler) extractUpload(name string, content []byte) ([]string, error) {
	tmpFile, err := os.CreateTemp("", "statement-*"+strings.ToLower(filepath.Ext(name)))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, err
	}
	if err := tmpFile.Close(); err != nil {
		return nil, err
	}
	return h.extractors.ExtractText(tmpFile.Name())
}

func (h *Handler) lookup(key string) (cached, bool) {
	if h.cache == nil {
		return cached{}, false
	}
	v, ok := h.cache.Get(key)
	if !ok {
		return cached{}, false
	}
	result, ok := v.(cached)
	return result, ok
}

func (h *Handler) store(key string, result cached) {
	if h.cache != nil {
		h.cache.Set(key, result, 1)
	}
}

// cacheKey hashes the document content. The name is included because it is
// stamped on every record.
func cacheKey(name string, content []byte, debug bool) string {
	sum := sha256.New()
	sum.Write([]byte(name))
	sum.Write([]byte{0})
	sum.Write(content)
	if debug {
		sum.Write([]byte{1})
	}
	return hex.EncodeToString(sum.Sum(nil))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success:      false,
		Error:        msg,
		Transactions: []Record{},
	})
}
