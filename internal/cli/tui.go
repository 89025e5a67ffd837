package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/qswap/pkg/pipeline"
	"github.com/matzehuels/qswap/pkg/route"
)

// sendInterval throttles progress messages to the TUI; improvements are
// always sent.
const sendInterval = 50 * time.Millisecond

// maxImprovements is how many recent improvements the view lists.
const maxImprovements = 6

var (
	tuiLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	tuiBestStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	tuiHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

type progressMsg route.Progress

type doneMsg struct {
	result *pipeline.Result
	err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/4, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// SearchModel - live view of a running search
// =============================================================================

type improvement struct {
	swaps int
	trial int
	at    time.Duration
}

// SearchModel is the bubbletea model for "qswap solve --tui".
type SearchModel struct {
	bar          progressbar.Model
	iterations   int
	latest       route.Progress
	improvements []improvement
	start        time.Time
	elapsed      time.Duration
	stopping     bool
	cancel       context.CancelFunc

	Result *pipeline.Result
	Err    error
}

// NewSearchModel creates a model for a search of the given trial budget.
// cancel stops the search when the user quits.
func NewSearchModel(iterations int, cancel context.CancelFunc) SearchModel {
	return SearchModel{
		bar:        progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(50)),
		iterations: max(iterations, 1),
		latest:     route.Progress{Best: -1},
		start:      time.Now(),
		cancel:     cancel,
	}
}

func (m SearchModel) Init() tea.Cmd {
	return tick()
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), 80)
	case tickMsg:
		m.elapsed = time.Since(m.start)
		return m, tick()
	case progressMsg:
		p := route.Progress(msg)
		if p.Improved && p.Best >= 0 {
			m.improvements = append(m.improvements, improvement{swaps: p.Best, trial: p.Trials, at: time.Since(m.start)})
			if len(m.improvements) > maxImprovements {
				m.improvements = m.improvements[len(m.improvements)-maxImprovements:]
			}
		}
		m.latest = p
	case doneMsg:
		m.Result, m.Err = msg.result, msg.err
		m.elapsed = time.Since(m.start)
		return m, tea.Quit
	}
	return m, nil
}

func (m SearchModel) percent() float64 {
	return min(float64(m.latest.Trials)/float64(m.iterations), 1)
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Searching for the fewest swaps"))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString("\n\n")

	best := "-"
	if m.latest.Best >= 0 {
		best = tuiBestStyle.Render(fmt.Sprint(m.latest.Best))
	}
	b.WriteString(tuiLabelStyle.Render("Best") + best + "\n")
	b.WriteString(tuiLabelStyle.Render("Trials") + fmt.Sprintf("%d/%d", m.latest.Trials, m.iterations) + "\n")
	b.WriteString(tuiLabelStyle.Render("Units") + fmt.Sprint(m.latest.Units) + "\n")
	b.WriteString(tuiLabelStyle.Render("Elapsed") + m.elapsed.Truncate(100*time.Millisecond).String() + "\n")

	if len(m.improvements) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("Improvements"))
		b.WriteString("\n")
		for _, imp := range m.improvements {
			b.WriteString(fmt.Sprintf("  %s %3d swaps  %s\n",
				StyleSuccess.Render(iconArrow), imp.swaps,
				StyleDim.Render(fmt.Sprintf("trial %d, %s", imp.trial, imp.at.Truncate(time.Millisecond)))))
		}
	}

	b.WriteString("\n")
	if m.stopping {
		b.WriteString(tuiHelpStyle.Render("stopping, keeping the best solution so far..."))
	} else {
		b.WriteString(tuiHelpStyle.Render("q stop"))
	}
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Runner
// =============================================================================

// runTUI executes the pipeline while a SearchModel shows its progress.
func (c *CLI) runTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = pipeline.DefaultIterations
	}
	p := tea.NewProgram(NewSearchModel(iterations, cancel), tea.WithOutput(os.Stderr))

	var last time.Time
	opts.Progress = func(pr route.Progress) {
		if !pr.Improved && time.Since(last) < sendInterval {
			return
		}
		last = time.Now()
		p.Send(progressMsg(pr))
	}

	// Logs would tear the view.
	quiet := *runner
	quiet.Logger = log.New(io.Discard)

	go func() {
		res, err := quiet.Execute(ctx, opts)
		p.Send(doneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	m := final.(SearchModel)
	return m.Result, m.Err
}
