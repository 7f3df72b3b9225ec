// Package progress renders download progress on interactive terminals.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// IsTerminalFunc reports whether a file descriptor is a terminal.
// Overridable for testing.
var IsTerminalFunc = term.IsTerminal

// Writer wraps an io.Writer and renders a progress line as bytes flow
// through it.
type Writer struct {
	writer    io.Writer
	output    io.Writer
	total     int64
	written   int64
	lastPrint time.Time
	mu        sync.Mutex
}

// NewWriter creates a progress writer counting toward total bytes. The
// progress line goes to output. A total <= 0 disables the percentage bar
// and only byte counts are shown.
func NewWriter(w io.Writer, total int64, output io.Writer) *Writer {
	return &Writer{
		writer: w,
		output: output,
		total:  total,
	}
}

// Write implements io.Writer and updates the progress display.
func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	if n > 0 {
		pw.mu.Lock()
		pw.written += int64(n)
		pw.printProgress(false)
		pw.mu.Unlock()
	}
	return n, err
}

// Finish renders the final state and terminates the progress line.
func (pw *Writer) Finish() {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.printProgress(true)
	fmt.Fprintln(pw.output)
}

// printProgress renders the current state. Updates are rate limited to 10
// per second to avoid flickering; force bypasses the limit.
func (pw *Writer) printProgress(force bool) {
	now := time.Now()
	if !force && now.Sub(pw.lastPrint) < 100*time.Millisecond {
		return
	}
	pw.lastPrint = now

	var line string
	if pw.total > 0 {
		percent := float64(pw.written) / float64(pw.total) * 100
		if percent > 100 {
			percent = 100
		}

		const barWidth = 30
		filled := int(percent / 100 * float64(barWidth))
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("=", filled)
		if filled < barWidth {
			bar += ">" + strings.Repeat(" ", barWidth-filled-1)
		}

		line = fmt.Sprintf("\r  [%s] %3.0f%% (%s/%s)",
			bar, percent, formatBytes(pw.written), formatBytes(pw.total))
	} else {
		line = fmt.Sprintf("\r  downloaded %s", formatBytes(pw.written))
	}

	// Pad to clear leftovers from a longer previous line.
	if len(line) < 70 {
		line += strings.Repeat(" ", 70-len(line))
	}
	_, _ = fmt.Fprint(pw.output, line)
}

// formatBytes renders a byte count in human-readable form.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case b >= GB:
		return fmt.Sprintf("%.1fGB", float64(b)/GB)
	case b >= MB:
		return fmt.Sprintf("%.1fMB", float64(b)/MB)
	case b >= KB:
		return fmt.Sprintf("%.1fKB", float64(b)/KB)
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// ShouldShowProgress reports whether progress should be rendered. The line
// goes to stderr, so it is shown only when stderr is a terminal.
func ShouldShowProgress() bool {
	return IsTerminalFunc(int(os.Stderr.Fd()))
}
