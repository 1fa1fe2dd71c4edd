package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	webviewruntime "github.com/wippyai/webview-runtime"
	"github.com/wippyai/webview-runtime/engine/htmltext"
	"github.com/wippyai/webview-runtime/webview"
)

var (
	barStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// tickCadence paces the render sweep. Each tick drives one webview Tick
// action, which drains engine work and re-renders stale views.
const tickCadence = 50 * time.Millisecond

type browserModel struct {
	wv      *webview.WebView
	eng     *htmltext.Engine
	address textinput.Model

	current webviewruntime.ViewID
	title   string
	status  string
	width   int
	height  int
	typing  bool
}

type tickMsg time.Time

// actionMsg carries a completed task's action back into the update loop.
type actionMsg struct {
	action webview.Action
}

func newBrowserModel(startURL string) *browserModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "enter a URL"
	ti.CharLimit = 2048
	ti.SetValue(startURL)

	m := &browserModel{
		eng:     htmltext.New(),
		address: ti,
		width:   80,
		height:  24,
	}
	m.wv = webview.New(m.eng,
		webview.WithSize(webviewruntime.Size{Width: 80, Height: 22}),
		webview.OnViewCreated(func(id webviewruntime.ViewID) { m.current = id }),
		webview.OnURLChange(func(id webviewruntime.ViewID, url string) {
			if id == m.current && !m.typing {
				m.address.SetValue(url)
			}
		}),
		webview.OnTitleChange(func(id webviewruntime.ViewID, title string) {
			if id == m.current {
				m.title = title
			}
		}),
		webview.OnCopy(func(text string) {
			m.status = fmt.Sprintf("copied %d characters", len(text))
		}),
	)
	return m
}

func (m *browserModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tick()}
	if v := m.address.Value(); v != "" {
		cmds = append(cmds, m.dispatch(webview.CreateView{Page: webviewruntime.URLPage(v)}))
	} else {
		m.address.Focus()
		m.typing = true
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(tickCadence, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// dispatch feeds one action into the webview and bridges the spawned
// tasks onto bubbletea's command runner.
func (m *browserModel) dispatch(a webview.Action) tea.Cmd {
	tasks := m.wv.Update(context.Background(), a)
	if len(tasks) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(tasks))
	for i, t := range tasks {
		t := t
		cmds[i] = func() tea.Msg {
			return actionMsg{action: t(context.Background())}
		}
	}
	return tea.Batch(cmds...)
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(m.dispatch(webview.Tick{}), tick())

	case actionMsg:
		if msg.action == nil {
			return m, nil
		}
		return m, m.dispatch(msg.action)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.dispatch(webview.Resize{Size: webviewruntime.Size{
			Width:  uint32(max(msg.Width, 1)),
			Height: uint32(max(msg.Height-chromeRows, 1)),
		}})

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.typing {
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return m, cmd
	}
	return m, nil
}

// chromeRows is the address bar plus the status line.
const chromeRows = 2

func (m *browserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	if m.typing {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.typing = false
			m.address.Blur()
			url := normalizeURL(m.address.Value())
			m.address.SetValue(url)
			if m.current == 0 {
				return m, m.dispatch(webview.CreateView{Page: webviewruntime.URLPage(url)})
			}
			return m, m.dispatch(webview.GoToURL{ID: m.current, URL: url})
		case "esc":
			m.typing = false
			m.address.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "l", "/":
		m.typing = true
		m.address.Focus()
		return m, textinput.Blink
	case "up", "k":
		return m, m.scrollBy(-1)
	case "down", "j":
		return m, m.scrollBy(1)
	case "pgup":
		return m, m.scrollBy(-(m.height - chromeRows))
	case "pgdown", " ":
		return m, m.scrollBy(m.height - chromeRows)
	case "g":
		return m, m.scrollBy(-1 << 30)
	case "G":
		return m, m.scrollBy(1 << 30)
	case "r":
		return m, m.dispatch(webview.Refresh{ID: m.current})
	case "backspace", "h":
		return m, m.dispatch(webview.GoBack{ID: m.current})
	case "f":
		return m, m.dispatch(webview.GoForward{ID: m.current})
	case "c":
		return m, m.dispatch(webview.CopySelection{ID: m.current})
	}
	return m, nil
}

func (m *browserModel) scrollBy(lines int) tea.Cmd {
	return m.dispatch(webview.SendMouse{ID: m.current, Event: webviewruntime.MouseEvent{
		Kind: webviewruntime.MouseWheel,
		Scroll: webviewruntime.ScrollDelta{
			Unit: webviewruntime.ScrollLines,
			Y:    float32(lines),
		},
	}})
}

func (m *browserModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m, m.scrollBy(-3)
	case tea.MouseButtonWheelDown:
		return m, m.scrollBy(3)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease || msg.Y < 1 {
			return m, nil
		}
		pos := webviewruntime.Point{X: float32(msg.X), Y: float32(msg.Y - 1)}
		press := m.dispatch(webview.SendMouse{ID: m.current, Event: webviewruntime.MouseEvent{
			Kind:   webviewruntime.MousePress,
			Button: webviewruntime.ButtonLeft,
			Pos:    pos,
		}})
		release := m.dispatch(webview.SendMouse{ID: m.current, Event: webviewruntime.MouseEvent{
			Kind:   webviewruntime.MouseRelease,
			Button: webviewruntime.ButtonLeft,
			Pos:    pos,
		}})
		return m, tea.Batch(press, release)
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(barStyle.Render("browse"))
	b.WriteString(" ")
	b.WriteString(m.address.View())
	b.WriteString("\n")

	body := m.eng.Text(m.current)
	b.WriteString(body)

	// Pad so the status line stays pinned to the bottom row.
	bodyRows := strings.Count(body, "\n") + 1
	for i := bodyRows; i < m.height-chromeRows; i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *browserModel) statusLine() string {
	if m.status != "" {
		return statusStyle.Render(m.status)
	}

	left := m.title
	if v, err := m.wv.Views().Get(m.current); err == nil {
		if left == "" {
			left = v.URL()
		}
		if v.InflightImages() > 0 {
			left += fmt.Sprintf("  (loading %d images)", v.InflightImages())
		}
	}
	help := helpStyle.Render("l address • j/k scroll • h back • r reload • q quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 1 {
		return statusStyle.Render(left)
	}
	return statusStyle.Render(left) + strings.Repeat(" ", gap) + help
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}
