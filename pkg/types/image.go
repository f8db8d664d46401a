package types

import "strings"

// ImageID identifies an image in the catalog. Negative values mean "no image".
type ImageID int32

// NoImage is the id used when no image is referenced (empty mouse-over,
// cleared full-surface slot, ...).
const NoImage ImageID = -1

// ImageFlags packs the per-image state bits. The low three bits hold the
// star rating (0-5); a rating of 6 is the historical "rejected" rating kept
// for compatibility with sidecars written by old releases.
type ImageFlags uint32

const (
	// RatingMask extracts the star rating from the flags.
	RatingMask ImageFlags = 0x7

	// FlagRejected marks an image rejected independently of its rating.
	FlagRejected ImageFlags = 1 << 3
	// FlagHasAudio is set when a sidecar audio note accompanies the image.
	FlagHasAudio ImageFlags = 1 << 4
	// FlagHasTxt is set when a sidecar text file accompanies the image.
	FlagHasTxt ImageFlags = 1 << 5
	// FlagLocalCopy is set when the raw file has been copied to local storage.
	FlagLocalCopy ImageFlags = 1 << 6
	// FlagHDR marks high-dynamic-range sources.
	FlagHDR ImageFlags = 1 << 7
	// FlagMonochrome marks black-and-white sources.
	FlagMonochrome ImageFlags = 1 << 8
)

// ratingRejected is the legacy in-band rating value meaning "rejected".
const ratingRejected = 6

// ImageInfo is the slice of catalog state the view layer needs for a single
// image. It is always handed around by value; the producing cache copies it
// out under its own lock so callers never hold cache locks while drawing.
type ImageInfo struct {
	ID       ImageID
	GroupID  ImageID
	Filename string
	Flags    ImageFlags
	Exif     string
}

// Rating returns the star rating encoded in the flags.
func (i *ImageInfo) Rating() int { return int(i.Flags & RatingMask) }

// Rejected reports whether the image is rejected, either via the dedicated
// flag or the legacy in-band rating.
func (i *ImageInfo) Rejected() bool {
	return i.Flags&FlagRejected != 0 || i.Rating() == ratingRejected
}

// IsHDR reports whether the image is a high-dynamic-range source.
func (i *ImageInfo) IsHDR() bool { return i.Flags&FlagHDR != 0 }

// IsMonochrome reports whether the image is a black-and-white source.
func (i *ImageInfo) IsMonochrome() bool { return i.Flags&FlagMonochrome != 0 }

// Extension returns the filename extension without the dot, or the whole
// filename when there is none.
func (i *ImageInfo) Extension() string {
	if idx := strings.LastIndexByte(i.Filename, '.'); idx >= 0 {
		return i.Filename[idx+1:]
	}
	return i.Filename
}

// ExtendModesStr builds the badge text drawn on thumbnail backgrounds:
// the extension in capital letters (avoids character descenders), extended
// with the HDR and B&W markers.
func ExtendModesStr(ext string, isHDR, isBW bool) string {
	s := strings.ToUpper(ext)
	if isHDR {
		s += " HDR"
	}
	if isBW {
		s += " B&W"
	}
	return s
}

// ColorSpace tags the encoding of a cached thumbnail buffer.
type ColorSpace int

const (
	ColorSpaceNone ColorSpace = iota
	ColorSpaceSRGB
	ColorSpaceAdobeRGB
	ColorSpaceDisplay
)

// String returns the colorspace name used in diagnostics.
func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGB:
		return "sRGB"
	case ColorSpaceAdobeRGB:
		return "AdobeRGB"
	case ColorSpaceDisplay:
		return "display"
	default:
		return "unset"
	}
}

// Color labels are stored as small integers in the catalog; five of them get
// fixed swatch positions on thumbnails.
const MaxColorLabels = 5
