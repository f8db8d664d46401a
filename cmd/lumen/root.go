package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lumen/internal/config"
	"lumen/internal/log"
)

var (
	cfgFile     string
	catalogFile string
	debug       bool
	conf        *config.Store
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "lumen",
		Short:   "View management and thumbnail rendering for a photo catalog",
		Long:    `Lumen composites photo thumbnails and manages the application views of a photo catalog.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetDebug(debug)

			var err error
			if cfgFile != "" {
				conf, err = config.LoadFile(cfgFile)
			} else {
				conf, err = config.Load()
			}
			if err != nil {
				log.Warnf("could not load config: %v, using defaults", err)
				conf = config.New()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/lumen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "",
		"catalog database (default is $HOME/.local/share/lumen/library.db)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewViewsCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewRenderCmd())
	rootCmd.AddCommand(NewGuiCmd())

	return rootCmd
}

func catalogPath() (string, error) {
	if catalogFile != "" {
		return catalogFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "share", "lumen")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "library.db"), nil
}
