package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PpairNode/LibStock/internal/api"
	"github.com/PpairNode/LibStock/internal/prefs"
)

// Run starts the interactive dashboard. It blocks until the user quits.
func Run(client *api.Client, dir string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	ps := prefs.Store{Dir: dir}
	m := newAppModel(client, ps, ps.Load(), log)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
