// Package output renders command results for the terminal. Color is
// applied only when writing to an interactive terminal without NO_COLOR
// set; pipes and CI get plain text.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/zero-assistant/zeroindex/internal/ingest"
	"github.com/zero-assistant/zeroindex/internal/search"
	"github.com/zero-assistant/zeroindex/internal/store"
)

// snippetLength caps fragment text shown per search result.
const snippetLength = 200

// Writer renders results to a single output stream.
type Writer struct {
	out    io.Writer
	styles Styles
	asJSON bool
}

// Option modifies a Writer.
type Option func(*Writer)

// WithNoColor disables color regardless of terminal detection.
func WithNoColor() Option {
	return func(w *Writer) { w.styles = NoColorStyles() }
}

// WithJSON switches the writer to machine-readable JSON output.
func WithJSON() Option {
	return func(w *Writer) { w.asJSON = true }
}

// NewWriter creates a Writer for out. Color defaults on for terminals,
// off for everything else.
func NewWriter(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:    out,
		styles: GetStyles(!useColor(out)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// useColor reports whether out is an interactive terminal and color is
// not suppressed via NO_COLOR.
func useColor(out io.Writer) bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IngestResults renders a batch ingestion report.
func (w *Writer) IngestResults(namespace string, results []ingest.Result) error {
	if w.asJSON {
		return w.writeJSON(results)
	}

	fmt.Fprintln(w.out, w.styles.Header.Render(fmt.Sprintf("Ingested into %q", namespace)))
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(w.out, "  %s %s: %v\n",
				w.styles.Error.Render("FAIL"), res.Filename, res.Err)
			continue
		}
		line := fmt.Sprintf("  %s %s: %d fragments", w.styles.Success.Render("OK"),
			res.Filename, res.FragmentsAdded)
		if res.FragmentsDropped > 0 {
			line += w.styles.Dim.Render(fmt.Sprintf(" (%d replaced)", res.FragmentsDropped))
		}
		fmt.Fprintln(w.out, line)
	}

	fmt.Fprintf(w.out, "%s %d succeeded, %d failed\n",
		w.styles.Label.Render("Total:"), len(results)-failed, failed)
	return nil
}

// SearchResults renders ranked query results.
func (w *Writer) SearchResults(query string, results []search.Result) error {
	if w.asJSON {
		return w.writeJSON(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(w.out, "No results for %q\n", query)
		return nil
	}

	fmt.Fprintln(w.out, w.styles.Header.Render(fmt.Sprintf("Results for %q", query)))
	for i, res := range results {
		fmt.Fprintf(w.out, "%d. %s %s %s\n",
			i+1,
			w.styles.Success.Render(res.Filename),
			w.styles.Dim.Render(fmt.Sprintf("#%d", res.ChunkIndex)),
			w.styles.Score.Render(fmt.Sprintf("score=%.4f", res.Score)))
		fmt.Fprintf(w.out, "   %s\n", snippet(res.Text))
	}
	return nil
}

// Stats renders namespace ingestion statistics.
func (w *Writer) Stats(stats store.NamespaceStats, records []store.DocumentRecord) error {
	if w.asJSON {
		return w.writeJSON(map[string]any{
			"stats":     stats,
			"documents": records,
		})
	}

	fmt.Fprintln(w.out, w.styles.Header.Render(fmt.Sprintf("Namespace %q", stats.Namespace)))
	fmt.Fprintf(w.out, "%s %d\n", w.styles.Label.Render("Documents:"), stats.Documents)
	fmt.Fprintf(w.out, "%s %d\n", w.styles.Label.Render("Fragments:"), stats.TotalFragments)
	if !stats.LastIngestedAt.IsZero() {
		fmt.Fprintf(w.out, "%s %s\n", w.styles.Label.Render("Last ingested:"),
			stats.LastIngestedAt.Format("2006-01-02 15:04:05"))
	}

	for _, rec := range records {
		fmt.Fprintf(w.out, "  %s %s\n", rec.Filename,
			w.styles.Dim.Render(fmt.Sprintf("(%d fragments, %s)",
				rec.FragmentsAdded, rec.IngestedAt.Format("2006-01-02"))))
	}
	return nil
}

// Errorf renders a command failure.
func (w *Writer) Errorf(format string, args ...any) {
	fmt.Fprintln(w.out, w.styles.Error.Render(fmt.Sprintf(format, args...)))
}

func (w *Writer) writeJSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// snippet flattens and truncates fragment text for display.
func snippet(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= snippetLength {
		return flat
	}
	return string(runes[:snippetLength]) + "..."
}
