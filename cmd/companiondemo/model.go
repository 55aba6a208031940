package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	companion "github.com/okvist/companion-core/core"
	"github.com/okvist/companion-core/core/cues"
	"github.com/okvist/companion-core/core/events"
)

const logLimit = 100

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faceStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	logStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type companionEventMsg struct {
	event events.Event
}

type connectivityMsg struct {
	connected bool
}

type expressionMsg struct {
	emotion string
	icon    string
}

type model struct {
	buddy      *companion.Companion
	spinner    spinner.Model
	width      int
	probeWired bool

	connected bool
	playing   string
	emotion   string
	icon      string
	emotions  []string
	nextTag   int

	log []string
}

func newModel(buddy *companion.Companion, probeWired bool) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &model{
		buddy:      buddy,
		spinner:    s,
		width:      80,
		probeWired: probeWired,
		emotions:   []string{"happy", "thinking", "sleepy", "surprised", "neutral"},
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case companionEventMsg:
		m.applyEvent(msg.event)
		return m, nil

	case connectivityMsg:
		m.connected = msg.connected
		return m, nil

	case expressionMsg:
		if msg.emotion != "" {
			m.emotion = msg.emotion
		}
		if msg.icon != "" {
			m.icon = msg.icon
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "w":
		m.request(cues.TypeWake)
	case "a":
		m.request(cues.TypeAcknowledge)
	case "f":
		m.request(cues.TypeFarewell)
	case "m":
		m.request(cues.TypeMicOn)
	case "M":
		m.request(cues.TypeMicOff)
	case "n":
		if m.probeWired {
			m.append("network toggle disabled while -probe is wired")
			break
		}
		m.connected = !m.connected
		m.buddy.OnConnectivityChanged(m.connected)
	case "s":
		if m.playing == "" {
			m.append("nothing playing")
			break
		}
		m.buddy.StopCue(cues.CueType(m.playing))
		m.append("stop requested")
	case "p":
		if m.buddy.IsPaused() {
			m.buddy.Resume()
			m.append("resumed")
		} else {
			m.buddy.Pause()
			m.append("paused")
		}
	case "e":
		tag := m.emotions[m.nextTag%len(m.emotions)]
		m.nextTag++
		m.buddy.OnEmotionTag(tag)
		m.append(fmt.Sprintf("emotion tag %q", tag))
	}
	return m, nil
}

func (m *model) request(cueType cues.CueType) {
	decision := m.buddy.RequestCue(cueType)
	m.append(fmt.Sprintf("request %s: %s", cueType, decision))
}

func (m *model) applyEvent(event events.Event) {
	switch event := event.(type) {
	case events.CuePlaybackStarted:
		m.playing = event.ResolvedType
	case events.CuePlaybackEnded, events.CuePlaybackFailed, events.CuePlaybackStopped:
		m.playing = ""
	case events.ConnectivityChanged:
		m.connected = event.Connected
	case events.ExpressionEmotionChanged:
		m.emotion = event.Emotion
	case events.ExpressionIconChanged:
		m.icon = event.Icon
	}
	m.append(string(event.Kind()))
}

func (m *model) append(line string) {
	m.log = append(m.log, line)
	if len(m.log) > logLimit {
		m.log = m.log[len(m.log)-logLimit:]
	}
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("companion cue scheduler"))
	b.WriteString("\n\n")

	network := statusOffStyle.Render("offline")
	if m.connected {
		network = statusOnStyle.Render("online")
	}
	playing := "idle"
	if m.playing != "" {
		playing = m.spinner.View() + " playing " + m.playing
	}
	if m.buddy.IsPaused() {
		playing = "paused"
	}
	b.WriteString(fmt.Sprintf("network: %s    worker: %s\n\n", network, playing))

	face := fmt.Sprintf("emotion: %s\nicon:    %s", orDash(m.emotion), orDash(m.icon))
	b.WriteString(faceStyle.Render(face))
	b.WriteString("\n\n")

	start := 0
	if len(m.log) > 12 {
		start = len(m.log) - 12
	}
	for _, line := range m.log[start:] {
		b.WriteString(logStyle.Render(wordwrap.String(line, m.width-2)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(wordwrap.String(
		"w wake · a acknowledge · f farewell · m mic on · M mic off · "+
			"n toggle network · s stop playing · p pause/resume · e emotion tag · q quit",
		m.width-2)))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
