package mips

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"lumen/internal/errors"
	"lumen/pkg/types"
)

// Metadata resolves an id to its catalog record; satisfied by the catalog.
type Metadata interface {
	Image(id types.ImageID) (types.ImageInfo, bool)
}

// FileLoader decodes images straight from their catalog filename.
func FileLoader(meta Metadata) Loader {
	return func(id types.ImageID) (image.Image, error) {
		info, ok := meta.Image(id)
		if !ok {
			return nil, errors.Newf("no catalog record for image %d", id)
		}
		f, err := os.Open(info.Filename)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", info.Filename)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", info.Filename)
		}
		return img, nil
	}
}
