package player

import (
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/asciiplay/frames"
	"go.jacobcolvin.com/asciiplay/log"
)

// View is a [Renderer] that keeps the latest frame for a [Model] to draw.
type View struct {
	content string
	mu      sync.Mutex
}

// NewView creates an empty [View].
func NewView() *View {
	return &View{}
}

// Render stores the frame content.
func (v *View) Render(f frames.Frame) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.content = f.Content

	return nil
}

// Content returns the latest frame content.
func (v *View) Content() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.content
}

// tickMsg signals that it is time to evaluate the scheduler again.
type tickMsg struct{}

// logMsg carries one log entry for the footer.
type logMsg string

// Model is the Bubble Tea model for full-screen playback. It drives an
// already started [Scheduler] whose renderer is view.
type Model struct {
	sched   *Scheduler
	view    *View
	logs    *log.Subscription
	lastLog string
	state   State
}

// NewModel creates a [Model]. The scheduler must have been created with
// [WithRenderer](view) and started with [Scheduler.Start]. When logs is not
// nil, the latest entry is shown below the frame, starting with the entry
// logged last before the model was created.
func NewModel(sched *Scheduler, view *View, logs *log.Subscription) *Model {
	m := &Model{
		sched: sched,
		view:  view,
		logs:  logs,
		state: sched.State(),
	}

	if logs != nil {
		m.lastLog = string(logs.Last())
	}

	return m
}

// State returns the playback state observed by the model.
func (m *Model) State() State {
	return m.state
}

// Init schedules the first tick and starts listening for log entries.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitForLog())
}

// Update handles ticks, log entries, and quit keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sched.Cancel()
			m.state = m.sched.State()

			return m, tea.Quit
		}

	case logMsg:
		m.lastLog = string(msg)

		return m, m.waitForLog()

	case tickMsg:
		res := m.sched.Tick()
		m.state = res.State

		if res.State.Done() {
			return m, tea.Quit
		}

		return m, m.tick()
	}

	return m, nil
}

// View draws the current frame and the log footer.
func (m *Model) View() tea.View {
	var sb strings.Builder

	sb.WriteString(m.view.Content())

	if m.lastLog != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.lastLog)
	}

	v := tea.NewView(sb.String())
	v.AltScreen = true

	return v
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.sched.TickRate(), func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *Model) waitForLog() tea.Cmd {
	if m.logs == nil {
		return nil
	}

	return func() tea.Msg {
		entry, ok := <-m.logs.C()
		if !ok {
			return nil
		}

		return logMsg(entry)
	}
}
