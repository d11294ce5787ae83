// Package tui renders a running propagation in the terminal with bubbletea.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/frames"
	"github.com/san-kum/astrodyn/internal/models"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxWarp         = 1024
)

type view int

const (
	viewGroundTrack view = iota
	viewPlane
	viewStrip
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type geoPoint struct{ lat, lon float64 }

// Model steps a container once per tick, warp steps at a time, and draws
// either the ground track, the equatorial plane or a strip chart of the
// first state element.
type Model struct {
	c          *dynamo.Container
	controller dynamo.Controller
	altitude   func(dynamo.State, float64) float64
	modelName  string
	orbital    bool
	dt         float64
	warp       int
	running    bool
	view       view
	canvas     *Canvas
	initial    dynamo.State
	track      []geoPoint
	plane      [][2]float64
	history    []float64
	err        error
}

// NewModel wraps c. A nil controller applies zero control; altitude may be
// nil, in which case the geodetic altitude of the position is shown.
func NewModel(c *dynamo.Container, ctrl dynamo.Controller, dt float64, modelName string, altitude func(dynamo.State, float64) float64) Model {
	orbital := c.Len() == len(models.OrbitSlots)
	v := viewGroundTrack
	if !orbital {
		v = viewStrip
	}
	m := Model{
		c:          c,
		controller: ctrl,
		altitude:   altitude,
		modelName:  modelName,
		orbital:    orbital,
		dt:         dt,
		warp:       1,
		running:    true,
		view:       v,
		canvas:     NewCanvas(width, height),
		initial:    c.State(),
		track:      make([]geoPoint, 0, historyCapacity),
		plane:      make([][2]float64, 0, historyCapacity),
		history:    make([]float64, 0, historyCapacity),
	}
	m.record()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "r":
			m.reset()
		case "v":
			if m.orbital {
				m.view = (m.view + 1) % viewStrip
			}
		case "+", "=":
			m.warp = min(m.warp*2, maxWarp)
		case "-", "_":
			m.warp = max(m.warp/2, 1)
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.warp && m.running; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.controller != nil {
		if err := m.c.SetControl(m.controller.Compute(m.c.State(), m.c.Time())); err != nil {
			m.fail(err)
			return
		}
	}
	m.c.Step(m.dt)
	if !m.c.IsValid() {
		m.fail(dynamo.ErrInvalidState)
		return
	}
	m.record()
}

func (m *Model) fail(err error) {
	m.err = err
	m.running = false
}

func (m *Model) record() {
	x, t := m.c.State(), m.c.Time()
	if !m.orbital {
		m.history = appendCapped(m.history, x[0])
		return
	}

	g := frames.ECEFToGeodetic(frames.ECIToECEF(models.Position(x), t))
	m.track = appendCapped(m.track, geoPoint{g.LatitudeDeg, g.LongitudeDeg})
	m.plane = appendCapped(m.plane, [2]float64{x[0], x[1]})

	alt := g.AltitudeM
	if m.altitude != nil {
		alt = m.altitude(x, t)
	}
	m.history = appendCapped(m.history, alt/1e3)
}

func appendCapped[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// reset restores the initial state and clears the history. Model
// parameters are left untouched.
func (m *Model) reset() {
	_ = m.c.SetState(m.initial)
	m.c.SetTime(0)
	m.err = nil
	m.running = true
	m.track = m.track[:0]
	m.plane = m.plane[:0]
	m.history = m.history[:0]
	m.record()
}

func (m Model) View() string {
	m.draw()

	x, t := m.c.State(), m.c.Time()
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)) + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = errorStyle.Render("STOPPED: " + m.err.Error())
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s\n\n", status))

	if len(m.history) > 1 {
		caption := "altitude km"
		if !m.orbital {
			caption = m.slotNames()[0]
		}
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(caption))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1fs", t))
	row("Warp", fmt.Sprintf("x%d", m.warp))
	if m.orbital && len(m.track) > 0 {
		p := m.track[len(m.track)-1]
		row("Altitude", fmt.Sprintf("%.3f km", m.history[len(m.history)-1]))
		row("Speed", fmt.Sprintf("%.1f m/s", models.Velocity(x).Norm()))
		row("Latitude", fmt.Sprintf("%.3f°", p.lat))
		row("Longitude", fmt.Sprintf("%.3f°", p.lon))
	} else {
		for i, name := range m.slotNames() {
			row(name, fmt.Sprintf("%.6f", x[i]))
		}
	}
	if h, ok := m.c.System().(dynamo.Hamiltonian); ok {
		row("Energy", fmt.Sprintf("%.1f J/kg", h.Energy(x)))
	}

	help := "SP:Pause R:Reset Q:Quit\n+/-:Warp"
	if m.orbital {
		help += " V:View"
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\n" + help))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m Model) slotNames() []string {
	names := m.c.Slots()
	if len(names) == m.c.Len() {
		return names
	}
	names = make([]string, m.c.Len())
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	return names
}

func (m *Model) draw() {
	m.canvas.Clear()
	switch m.view {
	case viewGroundTrack:
		m.drawGroundTrack()
	case viewPlane:
		m.drawPlane()
	default:
		m.drawStrip()
	}
}

// drawGroundTrack plots latitude against longitude on an equirectangular
// grid with the equator and prime meridian marked.
func (m *Model) drawGroundTrack() {
	pw, ph := m.canvas.Pixels()
	project := func(p geoPoint) (int, int) {
		x := int((p.lon + 180) / 360 * float64(pw-1))
		y := int((90 - p.lat) / 180 * float64(ph-1))
		return x, y
	}

	for x := 0; x < pw; x += 4 {
		m.canvas.Set(x, ph/2)
	}
	for y := 0; y < ph; y += 4 {
		m.canvas.Set(pw/2, y)
	}
	for _, p := range m.track {
		m.canvas.Set(project(p))
	}
	if len(m.track) > 0 {
		m.canvas.Dot(project(m.track[len(m.track)-1]))
	}
}

// drawPlane projects the inertial trajectory onto the equatorial plane.
func (m *Model) drawPlane() {
	pw, ph := m.canvas.Pixels()
	cx, cy := pw/2, ph/2

	extent := frames.SemiMajorAxis
	for _, p := range m.plane {
		extent = math.Max(extent, math.Hypot(p[0], p[1]))
	}
	// Braille pixels are twice as tall as they are wide.
	scale := float64(ph/2-2) / (extent * 1.05)
	project := func(p [2]float64) (int, int) {
		return cx + int(p[0]*scale), cy - int(p[1]*scale)
	}

	r := int(frames.SemiMajorAxis * scale)
	m.canvas.DrawEllipse(cx, cy, r, r)
	for _, p := range m.plane {
		m.canvas.Set(project(p))
	}
	if len(m.plane) > 0 {
		m.canvas.Dot(project(m.plane[len(m.plane)-1]))
	}
}

// drawStrip plots the history of the first state element, scaled to its
// own range.
func (m *Model) drawStrip() {
	pw, ph := m.canvas.Pixels()
	if len(m.history) == 0 {
		return
	}
	lo, hi := m.history[0], m.history[0]
	for _, v := range m.history {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	m.canvas.DrawLine(0, ph-1, pw-1, ph-1)
	px, py := -1, -1
	for i, v := range m.history {
		x := i * (pw - 1) / historyCapacity
		y := ph - 2 - int((v-lo)/span*float64(ph-3))
		if px >= 0 {
			m.canvas.DrawLine(px, py, x, y)
		}
		px, py = x, y
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
