package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/log"
	"lumen/pkg/types"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// NewImportCmd scans a directory tree into the catalog. Files sharing a stem
// (raw+jpeg pairs) land in the same group; .txt and .wav sidecars set the
// matching flags.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <directory>",
		Short: "Import images into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			groupByStem := map[string]types.ImageID{}
			nextID := nextImageID(s)
			position := len(s.cat.Collection())
			imported := 0

			err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
					return nil
				}

				stem := strings.TrimSuffix(path, filepath.Ext(path))
				id := nextID
				group, grouped := groupByStem[stem]
				if !grouped {
					group = id
					groupByStem[stem] = id
				}

				var flags types.ImageFlags
				if _, err := os.Stat(stem + ".txt"); err == nil {
					flags |= types.FlagHasTxt
				}
				if _, err := os.Stat(stem + ".wav"); err == nil {
					flags |= types.FlagHasAudio
				}

				info := types.ImageInfo{
					ID:       id,
					GroupID:  group,
					Filename: path,
					Flags:    flags,
				}
				if err := s.cat.AddImage(info, position); err != nil {
					log.Errorf("could not import %s: %v", path, err)
					return nil
				}
				nextID++
				position++
				imported++
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d images from %s\n", imported, dir)
			return nil
		},
	}
	return cmd
}

func nextImageID(s *session) types.ImageID {
	var max types.ImageID
	for _, id := range s.cat.Collection() {
		if id > max {
			max = id
		}
	}
	return max + 1
}
