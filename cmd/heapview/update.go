package main

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - chromeHeight
		if listHeight < 3 {
			listHeight = 3
		}
		if !m.ready {
			m.blocks = viewport.New(m.width, listHeight)
			m.ready = true
		} else {
			m.blocks.Width = m.width
			m.blocks.Height = listHeight
		}
		m.blocks.SetContent(m.renderBlockList())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space", "n":
			m.advance()
		case "s":
			for i := 0; i < 10 && !m.done(); i++ {
				m.advance()
			}
		case "g":
			for !m.done() && m.lastErr == nil {
				m.advance()
			}
		case "r":
			if err := m.reset(); err != nil {
				m.lastErr = err
			}
		default:
			var cmd tea.Cmd
			m.blocks, cmd = m.blocks.Update(msg)
			return m, cmd
		}
		if m.ready {
			m.blocks.SetContent(m.renderBlockList())
		}
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.blocks, cmd = m.blocks.Update(msg)
		return m, cmd
	}
	return m, nil
}
