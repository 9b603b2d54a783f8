// Package tui provides a Bubble Tea terminal user interface for podcasts-export.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/handiism/podcasts-export/internal/config"
	"github.com/handiism/podcasts-export/internal/export"
	"github.com/handiism/podcasts-export/internal/reveal"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B150E2")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	podcastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// errCancelled is shown when the user aborts a run.
var errCancelled = errors.New("cancelled by user")

const maxLogLines = 10

// State represents the current UI state.
type State int

const (
	StateReady State = iota
	StateScanning
	StateExporting
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   export.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logger   *zap.Logger
	logs     []LogEntry
	podcasts []string
	result   *export.Result
	err      error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	manager *export.Manager
	events  chan export.ProgressEvent

	// Export progress
	totalFiles     int32
	processedFiles int32
	totalBytes     int64
	copiedBytes    int64

	// Options
	playlist bool
	unique   bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. logger may be nil.
func NewModel(settings *config.Settings, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#B150E2"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateReady,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logger:   logger,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		playlist: settings.Export.CreatePlaylist,
		unique:   settings.Export.UniqueNames,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// ProgressMsg carries one event from the export manager.
	ProgressMsg struct {
		Event export.ProgressEvent
	}

	// ScanDoneMsg is sent when the library has been read and planned.
	ScanDoneMsg struct {
		Podcasts []string
		Manager  *export.Manager
		Err      error

		events chan export.ProgressEvent
	}

	// ExportDoneMsg is sent when every episode has been processed.
	ExportDoneMsg struct {
		Result *export.Result
		Err    error

		events chan export.ProgressEvent
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateReady {
				return m, tea.Quit
			}
			if m.state == StateExporting || m.state == StateScanning {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateReady {
				m.state = StateScanning
				m.events = make(chan export.ProgressEvent, 64)
				return m, tea.Batch(m.scan(), m.waitForEvent(), m.spinner.Tick)
			}

		case "p":
			if m.state == StateReady {
				m.playlist = !m.playlist
			}

		case "u":
			if m.state == StateReady {
				m.unique = !m.unique
			}

		case "v":
			if m.state == StateReady {
				m.verbose = !m.verbose
			}

		case "o":
			if m.state == StateComplete && m.result != nil {
				if err := reveal.Open(m.result.OutputDir); err != nil {
					m.logger.Debug("could not reveal output", zap.Error(err))
				}
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateReady
				m.logs = nil
				m.podcasts = nil
				m.result = nil
				m.err = nil
				m.processedFiles = 0
				m.totalFiles = 0
				m.copiedBytes = 0
				m.totalBytes = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == export.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}

	case ScanDoneMsg:
		if m.state != StateScanning || msg.events != m.events {
			// The run was cancelled; its export never starts.
			if msg.Manager != nil && msg.events != nil {
				close(msg.events)
			}
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.podcasts = msg.Podcasts
			m.manager = msg.Manager
			m.state = StateExporting
			cmds = append(cmds, m.startExport(), m.tickProgress())
		}

	case ExportDoneMsg:
		if msg.events != m.events {
			break
		}
		m.result = msg.Result
		if msg.Result != nil {
			m.copiedBytes = msg.Result.Bytes
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			if m.manager != nil {
				_, m.totalBytes, m.processedFiles, m.totalFiles = m.manager.GetProgress()
			}
			cmds = append(cmds, m.progress.SetPercent(1))
		}

	case TickMsg:
		if m.manager != nil && m.state == StateExporting {
			copied, total, files, totalFiles := m.manager.GetProgress()
			m.copiedBytes = copied
			m.totalBytes = total
			m.processedFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next manager event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Podcasts Export"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Copy downloaded episodes into tagged MP3 folders"))
	b.WriteString("\n\n")

	switch m.state {
	case StateReady:
		b.WriteString(m.viewReady())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateExporting:
		b.WriteString(m.viewExporting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewReady() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlists (p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Unique file names (u)\n", checkbox(m.unique)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output root: %s", m.settings.Paths.OutputRoot)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading podcasts library..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewExporting() string {
	var b strings.Builder

	if len(m.podcasts) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d podcast(s):", len(m.podcasts))))
		b.WriteString("\n")
		for _, podcast := range m.podcasts {
			b.WriteString(podcastStyle.Render(fmt.Sprintf("  ♪ %s", podcast)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.processedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Copied: %s",
		m.processedFiles,
		m.totalFiles,
		humanize.Bytes(uint64(max(m.copiedBytes, 0))),
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	exported, failed, outputDir := 0, 0, ""
	if m.result != nil {
		exported, failed, outputDir = m.result.Exported, len(m.result.Failed), m.result.OutputDir
	}
	box := boxStyle.Render(fmt.Sprintf(
		"Export Complete!\n\n"+
			"Podcasts: %d\n"+
			"Exported: %d\n"+
			"Failed: %d\n"+
			"Size: %s\n\n"+
			"%s",
		len(m.podcasts),
		exported,
		failed,
		humanize.Bytes(uint64(max(m.copiedBytes, 0))),
		outputDir,
	))
	b.WriteString(box)
	b.WriteString("\n")
	if failed > 0 {
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case export.LevelError:
			style = errorStyle
			prefix = "✗"
		case export.LevelWarning:
			style = warningStyle
			prefix = "!"
		case export.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case export.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateReady:
		return "enter: start • p: playlists • u: unique names • v: verbose • esc: quit"
	case StateScanning, StateExporting:
		return "esc: cancel"
	case StateComplete:
		return "o: open folder • r: run again • q: quit"
	case StateError:
		return "r: run again • q: quit"
	}
	return ""
}

// scan creates the manager and reads the library.
func (m *Model) scan() tea.Cmd {
	settings := *m.settings
	settings.Export.CreatePlaylist = m.playlist
	settings.Export.UniqueNames = m.unique
	settings.Export.RevealOutput = false
	ctx, events, logger := m.ctx, m.events, m.logger

	return func() tea.Msg {
		manager := export.NewManager(&settings, logger, func(event export.ProgressEvent) {
			select {
			case events <- event:
			default:
				// never block the export on a slow UI
			}
		})

		if err := manager.Initialize(ctx); err != nil {
			close(events)
			return ScanDoneMsg{Err: err, events: events}
		}

		var podcasts []string
		for _, group := range manager.Groups() {
			podcasts = append(podcasts, fmt.Sprintf("%s (%d episodes)", group.PodcastTitle, group.Len()))
		}
		return ScanDoneMsg{Podcasts: podcasts, Manager: manager, events: events}
	}
}

// startExport runs the export in the background.
func (m *Model) startExport() tea.Cmd {
	manager, ctx, events := m.manager, m.ctx, m.events
	return func() tea.Msg {
		if manager == nil {
			return ExportDoneMsg{Err: errors.New("no manager"), events: events}
		}
		result, err := manager.Start(ctx)
		if events != nil {
			close(events)
		}
		return ExportDoneMsg{Result: result, Err: err, events: events}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
