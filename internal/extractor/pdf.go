package extractor

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// PDF extracts page text from PDF statements.
type PDF struct {
	// Pdftotext enables the poppler-utils fallback for PDFs the Go library
	// cannot decode.
	Pdftotext bool
}

// ExtractText returns the text of each page, one line per text row. It tries
// the structured library first and falls back to pdftotext. A document with no
// text at all yields no pages; a document whose text decodes to garbage fails
// with ErrNoText.
func (e *PDF) ExtractText(path string) ([]string, error) {
	pages, libErr := extractWithLibrary(path)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	if e.Pdftotext {
		popplerPages, err := extractWithPdftotext(path)
		if err == nil && isReadableText(popplerPages) {
			return popplerPages, nil
		}
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoText, libErr)
	}
	if totalTextLen(pages) == 0 {
		return nil, nil
	}
	// Short or unusual text that decoded cleanly is still the document's text.
	if textQuality(pages) > 0.6 {
		return pages, nil
	}
	return nil, ErrNoText
}

// textQuality returns the share of plain ASCII letters, digits, whitespace and
// statement punctuation in the text, 0.0-1.0. unicode.IsLetter is too broad:
// identity-encoded fonts decode into accented garbage.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"$£€%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// statementWords appear on virtually every card or bank statement.
var statementWords = []string{
	"account", "balance", "payment", "statement", "date", "amount",
	"total", "credit", "debit", "transaction", "purchase", "page",
	"period", "interest", "fee", "due",
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 50 characters, over 60% of them readable,
// and at least one word a statement would contain.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}

// extractWithPdftotext shells out to pdftotext from poppler-utils, one call per
// page to keep page boundaries.
func extractWithPdftotext(path string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := 1
	if out, err := exec.Command("pdfinfo", path).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
				if err == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", page, "-l", page, path, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output for %s", path)
	}
	return pages, nil
}

// extractWithLibrary uses ledongthuc/pdf, trying row grouping, then
// coordinate-based reconstruction, then the per-page plain text.
func extractWithLibrary(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	if pages = extractByRow(r, numPages); isReadableText(pages) {
		return pages, nil
	}
	if pages = extractByContent(r, numPages); isReadableText(pages) {
		return pages, nil
	}
	if pages = extractByPagePlainText(r, numPages); isReadableText(pages) {
		return pages, nil
	}
	if text := extractByReaderPlainText(r); isReadableText([]string{text}) {
		return []string{text}, nil
	}
	return pages, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text pieces by rounded Y into rows (PDF Y grows
// upwards) and orders each row by X. Wide gaps become a double space so the
// amount columns stay apart.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type textItem struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], textItem{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			items := rows[y]
			sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

			var sb strings.Builder
			for j, item := range items {
				if j > 0 && item.x-items[j-1].x > 15 {
					sb.WriteString("  ")
				}
				sb.WriteString(item.s)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
