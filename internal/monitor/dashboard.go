package monitor

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/s22625/planwatch/internal/timeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const progressBarWidth = 20

// Dashboard is the bubbletea model for live monitoring. It runs the
// Monitor in a background goroutine and renders its feed; quitting
// cancels the monitor, which returns partial results.
type Dashboard struct {
	planID string

	events   []timeline.Event
	progress Progress
	result   *Result

	width      int
	height     int
	spinnerIdx int

	styles Styles

	cancel  context.CancelFunc
	msgs    chan tea.Msg
	monitor func(ctx context.Context) *Result
}

type eventMsg struct {
	event timeline.Event
}

type progressMsg struct {
	progress Progress
}

type resultMsg struct {
	result *Result
}

// NewDashboard wires a dashboard around a monitor session for planID.
// The caller's OnEvent/OnProgress options are replaced by the UI.
func NewDashboard(fetcher Fetcher, planID string, opts Options) *Dashboard {
	d := &Dashboard{
		planID: planID,
		styles: DefaultStyles(),
		msgs:   make(chan tea.Msg, 64),
	}

	opts.OnEvent = func(e timeline.Event) {
		d.msgs <- eventMsg{event: e}
	}
	opts.OnProgress = func(p Progress) {
		d.msgs <- progressMsg{progress: p}
	}

	m := New(fetcher, opts)
	d.monitor = func(ctx context.Context) *Result {
		return m.Run(ctx, planID)
	}

	return d
}

// Run starts the bubbletea program and blocks until the session ends
// or the user quits. The monitor's result is returned either way.
func (d *Dashboard) Run() (*Result, error) {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	defer cancel()

	go func() {
		d.msgs <- resultMsg{result: d.monitor(ctx)}
	}()

	program := tea.NewProgram(d, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return nil, err
	}

	// Quitting cancels the monitor, and the UI only exits once the
	// (possibly cancelled) run has delivered its result.
	if d.result == nil {
		cancel()
		d.result = d.awaitResult()
	}
	return d.result, nil
}

// awaitResult discards feed messages still queued after the UI exited
// until the monitor's terminal result arrives. Draining also unblocks
// a monitor goroutine stuck sending into the full channel.
func (d *Dashboard) awaitResult() *Result {
	for {
		if msg, ok := (<-d.msgs).(resultMsg); ok {
			return msg.result
		}
	}
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	return d.waitCmd()
}

func (d *Dashboard) waitCmd() tea.Cmd {
	return func() tea.Msg {
		return <-d.msgs
	}
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if d.result == nil {
				d.cancel()
				return d, d.waitCmd()
			}
			return d, tea.Quit
		}
		return d, nil

	case eventMsg:
		d.events = append(d.events, msg.event)
		return d, d.waitCmd()

	case progressMsg:
		d.progress = msg.progress
		d.spinnerIdx++
		return d, d.waitCmd()

	case resultMsg:
		d.result = msg.result
		return d, tea.Quit
	}

	return d, nil
}

// View implements tea.Model.
func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(d.styles.Title.Render("planwatch · "+d.planID) + "\n\n")
	b.WriteString(d.styles.StatusBar.Render(d.progressLine()) + "\n")
	b.WriteString(d.styles.Muted.Render(d.statsLine()) + "\n\n")

	for _, e := range d.visibleEvents() {
		line := fmt.Sprintf("%s  %s", e.Timestamp.Clock("--:--:--"), timeline.Truncate(e.Description, 70))
		b.WriteString(d.styles.EventStyle(e.Status).Render(line) + "\n")
	}

	b.WriteString("\n" + d.styles.HelpBar.Render("q: quit (keeps partial results)"))
	return b.String()
}

// visibleEvents keeps the tail that fits the terminal height.
func (d *Dashboard) visibleEvents() []timeline.Event {
	reserved := 7
	avail := d.height - reserved
	if avail <= 0 || len(d.events) <= avail {
		return d.events
	}
	return d.events[len(d.events)-avail:]
}

func (d *Dashboard) progressLine() string {
	p := d.progress

	var state string
	switch {
	case d.result != nil && d.result.State == StateCompleted:
		state = "✓ done"
	case d.result != nil:
		state = string(d.result.State)
	default:
		state = spinnerFrames[d.spinnerIdx%len(spinnerFrames)] + " running"
	}

	filled := progressBarWidth * p.Percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)

	current := p.CurrentStep
	if current == "" {
		current = "starting..."
	}
	current = runewidth.Truncate(current, 30, "...")

	return fmt.Sprintf("%-9s [%s] %3d%% │ %s │ %.1fs",
		state, bar, p.Percent, current, p.Elapsed.Seconds())
}

func (d *Dashboard) statsLine() string {
	s := d.progress.Stats
	return fmt.Sprintf("steps %d/%d │ thinks %d │ tools %d │ errors %d │ recoveries %d",
		d.progress.Steps, d.progress.Estimate, s.Thinks, s.ToolCalls, s.Errors, s.Recoveries)
}
