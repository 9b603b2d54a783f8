package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/mattn/go-isatty"

	"github.com/handiism/podcasts-export/internal/export"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// printer writes progress for humans, styled only on a terminal. Export
// workers call event concurrently, so every write holds mu.
type printer struct {
	mu       sync.Mutex
	out      io.Writer
	verbose  bool
	colorize bool
}

func newPrinter(out io.Writer, verbose bool) *printer {
	return &printer{out: out, verbose: verbose, colorize: shouldColorize(out)}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.colorize {
		return text
	}
	return s.Render(text)
}

func (p *printer) event(event export.ProgressEvent) {
	if event.Level == export.LevelVerbose && !p.verbose {
		return
	}

	var prefix string
	switch event.Level {
	case export.LevelError:
		prefix = p.style(errorStyle, "error")
	case export.LevelWarning:
		prefix = p.style(warningStyle, " warn")
	case export.LevelSuccess:
		prefix = p.style(successStyle, "   ok")
	case export.LevelInfo:
		prefix = p.style(infoStyle, " info")
	default:
		prefix = "     "
	}
	p.printf("%s %s\n", prefix, event.Message)
}

func (p *printer) header(title string) {
	p.println(p.style(titleStyle, title))
	p.println(strings.Repeat("━", 40))
}

func (p *printer) summary(result *export.Result) {
	p.println("")
	p.println(strings.Repeat("━", 40))
	p.println(p.style(successStyle, fmt.Sprintf("Exported podcasts to %s", result.OutputDir)))
	p.printf("%d exported, %d failed, %s copied in %s\n",
		result.Exported, len(result.Failed), formatBytes(result.Bytes), result.Duration.Round(time.Millisecond))
	if result.Playlists > 0 {
		p.printf("%s written\n", pluralize(result.Playlists, "playlist"))
	}
}

func (p *printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func pluralize(n int, word string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, word, "")
}
