package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PpairNode/LibStock/internal/api"
	"github.com/PpairNode/LibStock/internal/hierarchy"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/prefs"
)

type appModel struct {
	client *api.Client
	log    *slog.Logger

	prefsStore prefs.Store
	prefs      *prefs.Prefs
	hier       *hierarchy.Store

	username string

	focus focus
	mode  mode

	containerList list.Model
	itemsTable    table.Model
	spin          spinner.Model

	// visible mirrors the rows currently in the table, same order.
	visible []model.Item

	// search holds the draft query; searchQuery is the applied filter.
	search      textinput.Model
	searchQuery string

	// columnCursor indexes OptionalColumns in the column toggle overlay.
	columnCursor int

	confirmKind string // "item" or "container"
	confirmID   string
	confirmName string

	width  int
	height int

	statusErr string
}

func newAppModel(client *api.Client, ps prefs.Store, p *prefs.Prefs, log *slog.Logger) appModel {
	hier := hierarchy.NewStore(hierarchy.Adapter{Store: ps, Prefs: p}, log)

	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/"
	search.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = accentStyle

	m := appModel{
		client:     client,
		log:        log,
		prefsStore: ps,
		prefs:      p,
		hier:       hier,
		search:     search,
		spin:       spin,
	}
	m.containerList = newContainerList(26, 20)
	m.itemsTable = newItemsTable(nil, p, 80, 20)
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchSession(), m.fetchContainers())
}

func (m appModel) fetchSession() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		username, err := client.CheckSession(context.Background())
		return sessionMsg{username: username, err: err}
	}
}

func (m appModel) fetchContainers() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		containers, err := client.ListContainers(context.Background())
		return containersMsg{containers: containers, err: err}
	}
}

func (m appModel) fetchHierarchy(epoch uint64, containerID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		categories, err := client.ListCategories(ctx, containerID)
		if err != nil {
			return hierarchyMsg{epoch: epoch, err: err}
		}
		items, err := client.ListItems(ctx, containerID)
		if err != nil {
			return hierarchyMsg{epoch: epoch, err: err}
		}
		return hierarchyMsg{epoch: epoch, categories: categories, items: items}
	}
}

func (m appModel) deleteItem(containerID, itemID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteItem(context.Background(), containerID, itemID)
		return itemDeletedMsg{itemID: itemID, err: err}
	}
}

func (m appModel) deleteContainer(containerID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteContainer(context.Background(), containerID)
		return containerDeletedMsg{containerID: containerID, err: err}
	}
}
