package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/pbb/internal/api"
)

func (a *App) focusGlossaryInput() tea.Cmd {
	a.mode = ModeGlossaryInput
	a.glossary.Input.SetValue(a.glossary.Query)
	a.glossary.Input.CursorEnd()
	return a.glossary.Input.Focus()
}

func (a *App) handleGlossaryInputKey(msg tea.KeyMsg) tea.Cmd {
	g := &a.glossary

	switch msg.Type {
	case tea.KeyEsc:
		g.Input.Blur()
		a.mode = ModeNormal
		return nil
	case tea.KeyEnter:
		query := strings.TrimSpace(g.Input.Value())
		if query == "" {
			return nil
		}
		g.Input.Blur()
		a.mode = ModeNormal
		g.Query = query
		g.Loading = true
		g.Err = nil
		a.clearMessage()
		return a.searchGlossaryCmd(query)
	}

	var cmd tea.Cmd
	g.Input, cmd = g.Input.Update(msg)
	return cmd
}

func (a *App) handleGlossaryLoaded(msg glossaryLoadedMsg) {
	g := &a.glossary
	if msg.query != g.Query {
		return
	}
	g.Loading = false
	g.Cursor = 0

	if msg.err != nil {
		g.Terms = nil
		g.Total = 0
		g.Err = msg.err
		if errors.Is(msg.err, api.ErrInappropriateQuery) {
			a.setMessage(MessageWarning, api.ErrInappropriateQuery.Error())
			return
		}
		a.log.Warn("searching glossary", "query", msg.query, "error", msg.err)
		a.setMessage(MessageError, "Glossary search failed: "+msg.err.Error())
		return
	}

	g.Terms = msg.results.Terms
	g.Total = msg.results.Total
	if len(g.Terms) == 0 {
		a.setMessage(MessageInfo, fmt.Sprintf("No glossary entries for %q", msg.query))
	}
}

func (a *App) handleGlossaryKey(msg tea.KeyMsg) tea.Cmd {
	g := &a.glossary

	switch {
	case key.Matches(msg, a.keys.Down):
		g.Cursor = clampIndex(g.Cursor+1, len(g.Terms))
	case key.Matches(msg, a.keys.Up):
		g.Cursor = clampIndex(g.Cursor-1, len(g.Terms))
	case key.Matches(msg, a.keys.Bottom):
		g.Cursor = clampIndex(len(g.Terms)-1, len(g.Terms))
	case key.Matches(msg, a.keys.Search, a.keys.Filter):
		return a.focusGlossaryInput()
	}
	return nil
}
