package viz

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/sim"
)

const (
	defaultCols = 64
	defaultRows = 24
	sidebar     = 36
	churnWindow = 120
)

// FrameMsg carries a finished frame into the preview.
type FrameMsg struct {
	Index int
	Frame *dynamo.Frame
}

// DoneMsg marks the end of the run; the preview stays open until quit.
type DoneMsg struct {
	Summary *sim.Summary
}

// Model is the bubbletea model behind the terminal preview.
type Model struct {
	cfg     sim.Config
	title   string
	palette []dynamo.RGB
	canvas  *Canvas

	frame    *dynamo.Frame
	index    int
	received int
	churn    []float64
	started  time.Time
	summary  *sim.Summary
	showHelp bool
	quitting bool
}

func NewModel(title string, cfg sim.Config, palette []dynamo.RGB) Model {
	return Model{
		cfg:     cfg,
		title:   title,
		palette: palette,
		canvas:  NewCanvas(defaultCols, defaultRows),
		index:   -1,
		churn:   make([]float64, 0, churnWindow),
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		cols := max(msg.Width-sidebar-4, 8)
		rows := max(msg.Height-2, 4)
		m.canvas = NewCanvas(cols, rows)
		m.canvas.Fill(m.frame)
	case FrameMsg:
		if m.frame != nil {
			m.churn = append(m.churn, changed(m.frame, msg.Frame))
			if len(m.churn) > churnWindow {
				m.churn = m.churn[1:]
			}
		}
		m.frame = msg.Frame
		m.index = msg.Index
		m.received++
		m.canvas.Fill(m.frame)
	case DoneMsg:
		m.summary = msg.Summary
	}
	return m, nil
}

// changed is the fraction of pixels whose colour differs between frames.
func changed(prev, next *dynamo.Frame) float64 {
	if prev == nil || next == nil || len(prev.Pix) != len(next.Pix) || len(next.Pix) == 0 {
		return 0
	}
	diff := 0
	for i := 0; i < len(next.Pix); i += 3 {
		if prev.Pix[i] != next.Pix[i] || prev.Pix[i+1] != next.Pix[i+1] || prev.Pix[i+2] != next.Pix[i+2] {
			diff++
		}
	}
	return float64(diff) / float64(len(next.Pix)/3)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(Title.Render(m.title) + "\n\n")

	switch {
	case m.summary != nil:
		s.WriteString(StatusDone.Render("● complete") + "\n\n")
	case m.index < 0:
		s.WriteString(Subtle.Render("waiting for first frame") + "\n\n")
	default:
		s.WriteString(StatusRunning.Render("● rendering") + "\n\n")
	}

	frames := "∞"
	if m.cfg.Frames > 0 {
		frames = fmt.Sprint(m.cfg.Frames)
	}
	s.WriteString(Field("frame", fmt.Sprintf("%d / %s", m.index+1, frames)) + "\n")
	if m.index >= 0 {
		s.WriteString(Field("steps", sim.TotalSteps(m.cfg.Policy, m.cfg.Iterations, m.cfg.Step, m.index)) + "\n")
	}
	s.WriteString(Field("policy", m.cfg.Policy) + "\n")
	s.WriteString(Field("elapsed", time.Since(m.started).Round(time.Millisecond)) + "\n")
	if m.cfg.Frames > 0 {
		s.WriteString("\n" + ProgressBar(float64(m.index+1)/float64(m.cfg.Frames), 24) + "\n")
	}

	s.WriteString("\n" + MetricLabel.Render("churn") + "\n")
	s.WriteString(SparklineChart(m.churn, 30) + "\n")

	s.WriteString("\n" + MetricLabel.Render("attractors") + "\n")
	for _, c := range m.palette {
		s.WriteString(Swatch(c) + "\n")
	}

	if m.showHelp {
		s.WriteString("\n" + KeyHint.Render("q/esc  quit\n?      toggle help"))
	} else {
		s.WriteString("\n" + KeyHint.Render("q:quit ?:help"))
	}

	side := Panel.Width(sidebar).Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), side)
}

// Preview is a frame sink that draws into a bubbletea program. Closing the
// program by key closes the sink.
type Preview struct {
	program *tea.Program
	closed  atomic.Bool
	done    chan struct{}
	err     error
}

func NewPreview(title string, cfg sim.Config, palette []dynamo.RGB, opts ...tea.ProgramOption) *Preview {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Preview{
		program: tea.NewProgram(NewModel(title, cfg, palette), opts...),
		done:    make(chan struct{}),
	}
}

// Start runs the program in the background.
func (p *Preview) Start() {
	go func() {
		defer close(p.done)
		_, p.err = p.program.Run()
		p.closed.Store(true)
	}()
}

func (p *Preview) Emit(ctx context.Context, index int, frame *dynamo.Frame) error {
	if p.closed.Load() {
		return dynamo.ErrSinkClosed
	}
	p.program.Send(FrameMsg{Index: index, Frame: frame.Clone()})
	return nil
}

func (p *Preview) Closed() bool { return p.closed.Load() }

// Finish reports the run summary to the preview.
func (p *Preview) Finish(sum *sim.Summary) {
	if !p.closed.Load() {
		p.program.Send(DoneMsg{Summary: sum})
	}
}

// Wait blocks until the user quits or ctx ends.
func (p *Preview) Wait(ctx context.Context) error {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.program.Quit()
		<-p.done
	}
	return p.err
}
