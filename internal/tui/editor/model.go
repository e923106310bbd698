// Package editor is the interactive tree editor: a bubbletea program that
// projects the structural tree and reorders it with mouse drag-and-drop.
package editor

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/arbortools/arbor/pkg/content"
	"github.com/arbortools/arbor/pkg/drag"
	"github.com/arbortools/arbor/pkg/models"
	"github.com/arbortools/arbor/pkg/store"
	"github.com/arbortools/arbor/pkg/tree"
	"github.com/arbortools/arbor/pkg/view"
)

// headerHeight is the title row plus its spacer; tree lines start below it.
const headerHeight = 2

// Store is what the editor needs from persistence: acknowledged saves and
// full reloads.
type Store interface {
	store.Saver
	LoadTree(ctx context.Context) ([]models.NodeRecord, error)
}

// Model is the editor's bubbletea model.
type Model struct {
	store    Store
	registry *content.Registry
	log      *logrus.Logger

	root     *tree.Node
	vctx     *view.Context
	rootView *view.View
	ctrl     *drag.Controller

	keys KeyMap
	help help.Model

	lines          []view.Line
	width, height  int
	scroll         int
	mouseX, mouseY int

	saving bool
	status string
}

type contentResolvedMsg struct {
	hydration view.Hydration
}

type moveSavedMsg struct {
	pending *drag.Pending
	err     error
}

type reloadedMsg struct {
	records []models.NodeRecord
	err     error
}

// New builds the editor over an already-loaded tree.
func New(root *tree.Node, s Store, reg *content.Registry, log *logrus.Logger) (Model, error) {
	if log == nil {
		log = logrus.New()
	}
	m := Model{
		store:    s,
		registry: reg,
		log:      log,
		keys:     keys,
		help:     help.New(),
		width:    80,
		height:   24,
	}
	m.project(root)
	return m, nil
}

// project builds (or rebuilds) the view projection for a tree.
func (m *Model) project(root *tree.Node) {
	if m.rootView != nil {
		m.rootView.Close()
	}
	m.root = root
	m.vctx = view.NewContext(m.registry, m.log)
	m.vctx.SetErrorHandler(func(err error) {
		// Reference failures have no fallback; show them, loudly.
		m.log.WithError(err).Error("tree projection failure")
		m.status = "projection error: " + err.Error()
	})
	m.rootView = view.NewRoot(m.vctx, root)
	m.ctrl = drag.NewController(m.vctx, root, m.log)
	m.refreshLines()
}

// Init starts the pending content resolutions.
func (m Model) Init() tea.Cmd {
	return m.hydrationCmds()
}

// hydrationCmds drains outstanding hydrations into commands that deliver
// each resolved future back to the update loop.
func (m Model) hydrationCmds() tea.Cmd {
	pending := m.vctx.TakePending()
	if len(pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(pending))
	for _, h := range pending {
		h := h
		cmds = append(cmds, func() tea.Msg {
			<-h.Future.Done()
			return contentResolvedMsg{hydration: h}
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) refreshLines() {
	m.lines = m.vctx.RenderLines(m.width)
	if m.scroll > len(m.lines)-1 {
		m.scroll = 0
	}
}

func treeFromRecords(recs []models.NodeRecord) *tree.Node {
	return tree.BuildRoot(recs)
}

// lineAt maps a terminal row to a rendered line, nil when the row is
// outside the tree area.
func (m *Model) lineAt(y int) *view.Line {
	i := y - headerHeight + m.scroll
	if i < 0 || i >= len(m.lines) {
		return nil
	}
	return &m.lines[i]
}
