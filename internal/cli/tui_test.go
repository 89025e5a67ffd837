package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/qswap/pkg/route"
)

func update(t *testing.T, m SearchModel, msg tea.Msg) (SearchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SearchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSearchModelProgress(t *testing.T) {
	m := NewSearchModel(100, nil)
	if !strings.Contains(m.View(), "Best") {
		t.Fatalf("View() missing labels:\n%s", m.View())
	}

	m, _ = update(t, m, progressMsg(route.Progress{Trials: 5, Best: 12, Improved: true}))
	m, _ = update(t, m, progressMsg(route.Progress{Trials: 50, Best: 12}))
	if m.percent() != 0.5 {
		t.Errorf("percent() = %v, want 0.5", m.percent())
	}
	if len(m.improvements) != 1 {
		t.Errorf("improvements = %d, want 1", len(m.improvements))
	}

	for i := range maxImprovements + 3 {
		m, _ = update(t, m, progressMsg(route.Progress{Trials: 60 + i, Best: 11 - i, Improved: true}))
	}
	if len(m.improvements) != maxImprovements {
		t.Errorf("improvements = %d, want capped at %d", len(m.improvements), maxImprovements)
	}

	view := m.View()
	for _, want := range []string{"Improvements", "q stop"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestSearchModelQuitCancels(t *testing.T) {
	cancelled := 0
	m := NewSearchModel(10, func() { cancelled++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Error("quitting should wait for the search to finish")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cancelled != 1 {
		t.Errorf("cancel called %d times, want 1", cancelled)
	}
	if !strings.Contains(m.View(), "stopping") {
		t.Errorf("View() should show stopping state:\n%s", m.View())
	}

	wantErr := errors.New("boom")
	m, cmd = update(t, m, doneMsg{err: wantErr})
	if cmd == nil {
		t.Fatal("doneMsg should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("doneMsg command should be tea.Quit")
	}
	if !errors.Is(m.Err, wantErr) {
		t.Errorf("Err = %v, want %v", m.Err, wantErr)
	}
}
