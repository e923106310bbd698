package editor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arbortools/arbor/pkg/drag"
	"github.com/arbortools/arbor/pkg/view"
)

const saveTimeout = 5 * time.Second

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refreshLines()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case contentResolvedMsg:
		// Completion runs here, on the update loop: hydration callbacks
		// never race structural mutation.
		if err := msg.hydration.Node.CompleteHydration(); err != nil {
			// One node's content failing must not disturb its siblings.
			m.log.WithError(err).Warn("content hydration failed")
			m.status = err.Error()
		}
		m.refreshLines()
		return m, nil

	case moveSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.ctrl.Abort(msg.pending, msg.err)
			m.status = "move failed, tree restored: " + msg.err.Error()
			m.refreshLines()
			return m, nil
		}
		if err := m.ctrl.Finish(msg.pending); err != nil {
			m.status = "move commit failed: " + err.Error()
		} else {
			m.status = "moved " + string(msg.pending.Node.ID())
		}
		m.refreshLines()
		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.status = "reload failed: " + msg.err.Error()
			return m, nil
		}
		m.project(treeFromRecords(msg.records))
		m.status = "reloaded"
		return m, m.hydrationCmds()
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Cancel()
		m.status = ""
		m.refreshLines()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.saving || m.ctrl.Phase() != drag.Idle {
			return m, nil
		}
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			recs, err := m.store.LoadTree(ctx)
			return reloadedMsg{records: recs, err: err}
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.scroll > 0 {
				m.scroll--
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if m.scroll < len(m.lines)-1 {
				m.scroll++
			}
			return m, nil
		case tea.MouseButtonLeft:
			return m.pickUp(msg)
		}

	case tea.MouseActionMotion:
		if m.ctrl.Phase() != drag.Idle {
			m.mouseX, m.mouseY = msg.X, msg.Y
			m.ctrl.Move(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.ctrl.Phase() != drag.Idle {
			return m.drop(msg)
		}
	}
	return m, nil
}

// pickUp starts a drag when the press lands on a node's row. Pressing a row
// picks up that node and only that node; nested handles never both fire.
func (m Model) pickUp(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	ln := m.lineAt(msg.Y)
	if ln == nil || ln.El.Kind() != view.KindShell {
		return m, nil
	}
	v := ln.El.View()
	if v == nil || v == m.rootView {
		return m, nil
	}
	if err := m.ctrl.PickUp(v, msg.X, msg.Y); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.mouseX, m.mouseY = msg.X, msg.Y
	m.status = "dragging " + string(v.Node().ID())
	m.refreshLines()
	return m, nil
}

// drop releases the drag. Only a release over an insertion target proposes a
// move; anywhere else cancels with no model mutation. A proposed move is
// saved first and applied only on acknowledgment.
func (m Model) drop(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var target *view.Element
	if ln := m.lineAt(msg.Y); ln != nil && ln.El.Kind() == view.KindDropTarget {
		target = ln.El
	}
	pending, err := m.ctrl.Drop(target)
	m.refreshLines()
	if err != nil {
		m.status = "drop rejected: " + err.Error()
		return m, nil
	}
	if pending == nil {
		m.status = ""
		return m, nil
	}
	m.saving = true
	m.status = "saving move…"
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return moveSavedMsg{pending: pending, err: m.store.Save(ctx, pending.Plan...)}
	}
}
