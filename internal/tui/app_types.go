package tui

import "github.com/PpairNode/LibStock/internal/model"

type focus int

const (
	focusContainers focus = iota
	focusItems
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeColumns
	modeConfirmDelete
)

type sessionMsg struct {
	username string
	err      error
}

type containersMsg struct {
	containers []model.Container
	err        error
}

// hierarchyMsg carries the categories and items fetched for one container
// selection. epoch ties the response to the selection that requested it;
// stale responses are dropped by the hierarchy store.
type hierarchyMsg struct {
	epoch      uint64
	categories []model.Category
	items      []model.Item
	err        error
}

type itemDeletedMsg struct {
	itemID string
	err    error
}

type containerDeletedMsg struct {
	containerID string
	err         error
}
