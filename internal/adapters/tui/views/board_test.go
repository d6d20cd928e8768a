package views

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

func newTestBoardModel(t *testing.T, stickies int) (*BoardModel, *application.Board) {
	t.Helper()
	b := application.NewBoard()
	for i := range stickies {
		b.AddSticky(domain.Pt(float64(i*200), 0))
	}
	m := NewBoardModel(b, "test", NewStatusModel())
	m.SetSize(100, 40)
	return m, b
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardModelSelectionAndConnect(t *testing.T) {
	m, b := newTestBoardModel(t, 3)

	m.Update(keyPress(" "))
	m.Update(keyPress("j"))
	m.Update(keyPress("j"))
	m.Update(keyPress(" "))
	if got := b.Snapshot().Selected(); strings.Join(got, ",") != "1,3" {
		t.Fatalf("selected = %v", got)
	}

	m.Update(keyPress("c"))
	if b.EdgeCount() != 1 {
		t.Fatalf("edges = %d, want 1", b.EdgeCount())
	}
	if e := b.Snapshot().Edges[0]; e.ID != "e1-3" {
		t.Errorf("edge = %q", e.ID)
	}

	m.Update(keyPress("esc"))
	if len(b.Snapshot().Selected()) != 0 {
		t.Error("esc should clear the selection")
	}
}

func TestBoardModelConnectOpensFormWithoutPair(t *testing.T) {
	m, b := newTestBoardModel(t, 2)

	_, cmd := m.Update(keyPress("c"))
	msg, ok := cmd().(SwitchToFormMsg)
	if !ok {
		t.Fatalf("expected SwitchToFormMsg, got %T", cmd())
	}
	if got := msg.Form.Values(); got[0] != "1" {
		t.Errorf("source prefilled with %q, want cursor node", got[0])
	}

	msg.Form.form.Fields[1].Input.SetValue("2")
	_, cmd = msg.Form.Update(keyPress("enter"))
	result := cmd().(ResultMsg)
	if result.Err != nil || b.EdgeCount() != 1 {
		t.Errorf("submit result = %+v, edges = %d", result, b.EdgeCount())
	}
}

func TestBoardModelDeleteAndGroup(t *testing.T) {
	m, b := newTestBoardModel(t, 3)

	m.Update(keyPress("a"))
	m.Update(keyPress("g"))
	if b.NodeCount() != 4 {
		t.Fatalf("nodes = %d after grouping", b.NodeCount())
	}
	if !strings.Contains(m.Message, "Grouped into frame 4") {
		t.Errorf("message = %q", m.Message)
	}

	m.Update(keyPress("d"))
	if b.NodeCount() != 3 {
		t.Errorf("deleting the frame should promote its children, nodes = %d", b.NodeCount())
	}
}

func TestBoardModelCopyJSON(t *testing.T) {
	m, _ := newTestBoardModel(t, 2)
	var copied string
	m.copy = func(s string) error { copied = s; return nil }

	m.Update(keyPress("y"))
	var doc struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(copied), &doc); err != nil {
		t.Fatalf("copied text is not JSON: %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Errorf("copied %d nodes", len(doc.Nodes))
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(keyPress("y"))
	if !m.MessageErr || !strings.Contains(m.Message, "no clipboard") {
		t.Errorf("message = %q", m.Message)
	}
}

func TestBoardModelPresetKeys(t *testing.T) {
	m, _ := newTestBoardModel(t, 0)
	tests := map[string]int{"1": 500, "2": 1000, "3": 5000, "4": 10000}
	for k, want := range tests {
		_, cmd := m.Update(keyPress(k))
		msg, ok := cmd().(GenerateMsg)
		if !ok || msg.Count != want || !msg.Reset {
			t.Errorf("key %s: %+v", k, msg)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	b := application.NewBoard()
	values := []string{"circle", "#112233", "#445566", "3", "smoothstep", "yes", "no"}

	cmd, err := parseDefaults(b, values)
	if err != nil {
		t.Fatalf("parseDefaults() error = %v", err)
	}
	if _, err := cmd.Execute(t.Context()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if b.ShapeDefaults().Shape != domain.ShapeCircle || b.EdgeDefaults().Routing != domain.RoutingCurved {
		t.Errorf("defaults = %+v %+v", b.ShapeDefaults(), b.EdgeDefaults())
	}
	if !b.EdgeDefaults().Dashed || b.EdgeDefaults().Arrowed {
		t.Errorf("edge flags = %+v", b.EdgeDefaults())
	}

	bad := []string{"circle", "#112233", "#445566", "wide", "step", "no", "no"}
	if _, err := parseDefaults(b, bad); err == nil {
		t.Error("expected error for non-numeric stroke width")
	}
}
