package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewViewsCmd lists the loaded views in switcher order.
func NewViewsCmd() *cobra.Command {
	var patterns []string

	cmd := &cobra.Command{
		Use:   "views",
		Short: "List the registered views",
		Long:  `List the view modules the application would load, in switcher order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(patterns...)
			if err != nil {
				return err
			}
			defer s.close()

			for _, v := range s.mgr.Views() {
				fmt.Printf("%-12s %s\n", v.ModuleName, v.Name())
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&patterns, "filter", "f", nil,
		"glob patterns selecting which view modules to load")
	return cmd
}
