package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"finqa/internal/tui"
)

func tuiCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Ask questions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			m, err := a.store.LoadManifest()
			if err != nil {
				return err
			}
			syn, err := a.synthesizer()
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(tui.New(syn, m.Summary), tea.WithAltScreen()).Run()
			return err
		},
	}
}
