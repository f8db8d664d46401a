package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"lumen/internal/deco"
	"lumen/internal/paint"
	"lumen/internal/thumb"
	"lumen/pkg/types"
)

// NewRenderCmd composites one thumbnail into a PNG file.
func NewRenderCmd() *cobra.Command {
	var (
		id        int32
		out       string
		width     int
		height    int
		imageOnly bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a thumbnail to a PNG file",
		Long:  `Composite one catalog image, with its overlay decorations, into a PNG file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			imgid := types.ImageID(id)
			if _, ok := s.cat.Image(imgid); !ok {
				return fmt.Errorf("no image %d in the catalog", id)
			}

			surface := paint.NewSurface(width, height)
			if surface == nil {
				return fmt.Errorf("bad output size %dx%d", width, height)
			}
			cr := paint.NewRaster(surface)

			if imageOnly {
				s.comp.ImageOnlyExpose(imgid, cr, float64(width), float64(height), 0, 0)
			} else {
				over := deco.Desert
				req := thumb.Request{
					ImageOver: &over,
					ImageID:   imgid,
					Canvas:    cr,
					Width:     float64(width),
					Height:    float64(height),
					Zoom:      1,
					Px:        10000,
					Py:        -1,
				}
				s.comp.ShowOverlays = true
				s.comp.Expose(&req)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, surface.RGBA()); err != nil {
				return err
			}
			fmt.Printf("Rendered image %d to %s (%dx%d)\n", id, out, width, height)
			return nil
		},
	}

	cmd.Flags().Int32Var(&id, "id", 1, "catalog id of the image to render")
	cmd.Flags().StringVarP(&out, "out", "o", "thumb.png", "output PNG file")
	cmd.Flags().IntVar(&width, "width", 512, "output width in pixels")
	cmd.Flags().IntVar(&height, "height", 512, "output height in pixels")
	cmd.Flags().BoolVar(&imageOnly, "image-only", false, "skip the overlay decorations")

	return cmd
}
