package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/locsim/internal/discovery"
)

// ScanFunc browses for bridges for at most timeout.
type ScanFunc func(ctx context.Context, timeout time.Duration) ([]*discovery.Bridge, error)

const scanTickInterval = 100 * time.Millisecond

// Messages for the scan screen
type scanTickMsg time.Time

type scanDoneMsg struct {
	bridges []*discovery.Bridge
	err     error
}

// scanKeyMap defines key bindings for the scan screen
type scanKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k scanKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k scanKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// ScanModel shows an mDNS browse in progress and its results. It quits on
// its own once the browse window closes.
type ScanModel struct {
	Timeout  time.Duration
	Scanning bool
	Bridges  []*discovery.Bridge
	Err      error

	ctx     context.Context
	cancel  context.CancelFunc
	scan    ScanFunc
	started time.Time
	now     func() time.Time

	// UI state
	Width       int
	Spinner     spinner.Model
	ProgressBar progress.Model
	Help        help.Model
	Keys        scanKeyMap
}

// NewScanModel creates a scan screen that runs scan with timeout.
func NewScanModel(ctx context.Context, timeout time.Duration, scan ScanFunc) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	ctx, cancel := context.WithCancel(ctx)

	return ScanModel{
		Timeout:     timeout,
		Scanning:    true,
		ctx:         ctx,
		cancel:      cancel,
		scan:        scan,
		started:     time.Now(),
		now:         time.Now,
		Width:       DefaultWidth,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: scanKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "stop"),
			),
		},
	}
}

// Init starts the browse, the spinner and the countdown
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, scanTick(), m.runScan())
}

func scanTick() tea.Cmd {
	return tea.Tick(scanTickInterval, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

func (m ScanModel) runScan() tea.Cmd {
	ctx, timeout, scan := m.ctx, m.Timeout, m.scan
	return func() tea.Msg {
		bridges, err := scan(ctx, timeout)
		return scanDoneMsg{bridges: bridges, err: err}
	}
}

// Update handles all messages
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.ProgressBar.Width = max(min(msg.Width-10, 60), 10)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.Keys.Quit) {
			m.cancel()
			if !m.Scanning {
				return m, tea.Quit
			}
		}
		return m, nil

	case scanTickMsg:
		if !m.Scanning {
			return m, nil
		}
		return m, scanTick()

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.Scanning = false
		m.Bridges = msg.bridges
		m.Err = msg.err
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

// Percent returns the elapsed share of the browse window
func (m ScanModel) Percent() float64 {
	if !m.Scanning || m.Timeout <= 0 {
		return 1
	}
	p := float64(m.now().Sub(m.started)) / float64(m.Timeout)
	if p > 1 {
		return 1
	}
	return p
}

// View renders the scan screen
func (m ScanModel) View() string {
	var b strings.Builder

	if m.Scanning {
		remaining := m.Timeout - m.now().Sub(m.started)
		if remaining < 0 {
			remaining = 0
		}
		b.WriteString(m.Spinner.View() + " Browsing for locsim bridges on " + discovery.ServiceDomain + "\n\n")
		b.WriteString(m.ProgressBar.ViewAs(m.Percent()))
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  %.0fs left", remaining.Seconds())))
		b.WriteString("\n\n")
		b.WriteString(m.Help.View(m.Keys))
		return b.String()
	}

	b.WriteString(RenderScanResults(m.Bridges, m.Err))
	return b.String()
}

// RenderScanResults renders discovered bridges, or the scan error
func RenderScanResults(bridges []*discovery.Bridge, err error) string {
	if err != nil {
		return ErrorBoxStyle.Render("✗ Scan failed: "+err.Error()) + "\n"
	}
	if len(bridges) == 0 {
		return SubtitleStyle.Render("No bridges found. Check that locsim is running on the same network.") + "\n"
	}

	var b strings.Builder
	b.WriteString(RenderTitle(fmt.Sprintf("Found %d bridge(s)", len(bridges))))
	b.WriteString("\n")
	for _, br := range bridges {
		b.WriteString(FocusedInputStyle.Render("• " + br.Instance))
		b.WriteString("\n")
		b.WriteString(RenderRow("  URL", br.URL()))
		b.WriteString("\n")
		if br.Version != "" {
			b.WriteString(RenderRow("  Version", br.Version))
			b.WriteString("\n")
		}
	}
	return b.String()
}
