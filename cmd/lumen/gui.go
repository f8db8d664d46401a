package main

import (
	"github.com/spf13/cobra"

	"lumen/internal/gui"
	"lumen/internal/log"
)

// NewGuiCmd launches the viewer window.
func NewGuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the viewer window",
		Long:  `Open a window showing the loaded views, with the lighttable grid as the starting view.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			// settings edited while the window is open take effect live
			stop, err := conf.Watch()
			if err != nil {
				log.Warnf("config watch unavailable: %v", err)
			} else {
				defer stop()
			}

			return gui.New(s.mgr).Run()
		},
	}
}
