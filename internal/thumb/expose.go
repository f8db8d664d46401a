package thumb

import (
	"bufio"
	"math"
	"os"
	"time"

	"lumen/internal/config"
	"lumen/internal/deco"
	"lumen/internal/log"
	"lumen/internal/paint"
	"lumen/pkg/types"
)

// Compositor draws thumbnails from cached buffers plus catalog state. One
// compositor serves all thumbnails of a window; the per-frame UI state
// fields are owned by the GUI thread.
type Compositor struct {
	Images   ImageCache
	Mips     MipmapCache
	Profiles ColorProfiles
	Catalog  Catalog
	Conf     *config.Store
	Palette  Palette

	// DPI scales nominal pixel sizes; zero means 1.0.
	DPI float64

	// UI state for the current frame.
	ShowOverlays    bool
	FocusPeaking    bool
	Grouping        bool
	ExpandedGroupID types.ImageID
	// BorderSize is the darkroom border around the centered preview.
	BorderSize int
	// CenterTooltip is raised when the pointer rests on the altered marker.
	CenterTooltip bool
	// Surrounded tells whether an id should get the "shown in main view"
	// frame; nil means never.
	Surrounded func(id types.ImageID) bool
}

func (c *Compositor) pixels(v float64) float64 {
	if c.DPI > 0 {
		return v * c.DPI
	}
	return v
}

func (c *Compositor) decoEngine() *deco.Engine {
	extended := c.Conf != nil && c.Conf.GetBool(config.KeyExtendedThumbOverlay)
	return &deco.Engine{
		DPI:             c.DPI,
		ExtendedOverlay: extended,
		ShowOverlays:    c.ShowOverlays,
		SelectedBorder:  c.Palette.SelectedBorder,
	}
}

// Expose draws one thumbnail and resolves which decoration the pointer
// hovers into req.ImageOver. It returns true when the cache could only
// provide a wrong-sized buffer, meaning the caller should schedule another
// redraw once better data is in.
func (c *Compositor) Expose(req *Request) bool {
	missing := false
	start := time.Now()

	cr := req.Canvas
	imgid := req.ImageID
	width := req.Width
	height := req.Height
	zoom := req.Zoom
	px := req.Px
	py := req.Py
	fullPreview := req.FullPreview
	imageOnly := req.ImageOnly
	noDeco := req.NoDeco || imageOnly

	inMetadataZone := (px < width && py < height/2) || zoom > 1

	drawColorlabels := !noDeco && (c.ShowOverlays || inMetadataZone)
	drawLocalCopy := !noDeco && (c.ShowOverlays || inMetadataZone)
	drawGrouping := !noDeco
	drawSelected := !noDeco
	drawHistory := !noDeco
	drawMetadata := !noDeco && (c.ShowOverlays || inMetadataZone)
	drawAudio := !noDeco

	cr.Save()
	bgcol := c.Palette.ThumbBG
	fontcol := c.Palette.ThumbFont
	outlinecol := c.Palette.ThumbOutline

	selected := false
	if drawSelected && c.Catalog != nil {
		selected = c.Catalog.IsSelected(imgid)
	}

	surrounded := !fullPreview && c.Surrounded != nil && c.Surrounded(imgid)

	// if overlays are forced or the user points at this image, we really
	// want the metadata record
	var img *types.ImageInfo
	if c.Images != nil {
		var info types.ImageInfo
		var ok bool
		if c.ShowOverlays || req.MouseOver || zoom == 1 {
			info, ok = c.Images.Get(imgid)
		} else {
			info, ok = c.Images.TestGet(imgid)
		}
		if ok {
			img = &info
		}
	}

	if selected && zoom != 1 {
		outlinecol = c.Palette.SelectedOutline
		bgcol = c.Palette.SelectedBG
		fontcol = c.Palette.SelectedFont
	}
	if req.MouseOver || zoom == 1 {
		bgcol = c.Palette.HoverBG
		fontcol = c.Palette.HoverFont
		outlinecol = c.Palette.HoverOutline
	}

	drawThumbBackground := false
	imgwd := 0.91
	if imageOnly {
		imgwd = 1.0
	} else if zoom == 1 {
		imgwd = 0.97
	} else {
		drawThumbBackground = true
	}

	fz := 1.0
	if req.FullZoom > 0 {
		fz = req.FullZoom
	}
	if req.FullZoom100 > 0 {
		fz = math.Min(req.FullZoom100, fz)
	}
	mip := c.Mips.MatchingSize(imgwd*width*fz, imgwd*height*fz)

	// drop the cached preview surface when it no longer matches
	if req.FullSurface != nil && *req.FullSurface != nil && *req.FullSurfaceLock == 0 &&
		(*req.FullSurfaceID != imgid || *req.FullSurfaceMip != mip || !fullPreview) {
		*req.FullSurface = nil
		if req.FullBuf != nil {
			*req.FullBuf = nil
		}
	}

	var buf MipBuf
	bufMipmap := false
	bufOK := true
	bufSizeOK := true
	bufWd, bufHt := 0, 0
	if req.FullSurface == nil || *req.FullSurface == nil || *req.FullSurfaceLock != 0 {
		buf = c.Mips.Get(imgid, mip)
		bufWd = buf.Width
		bufHt = buf.Height
		if len(buf.Buf) == 0 {
			bufOK = false
			bufSizeOK = false
		}
		if mip != buf.Size {
			bufSizeOK = false
		}
		bufMipmap = true
	} else {
		bufWd = *req.FullSurfaceWd
		bufHt = *req.FullSurfaceHt
	}

	if drawThumbBackground {
		cr.Rectangle(0, 0, width, height)
		paint.SetColor(cr, bgcol)
		cr.FillPreserve()
		if req.Filmstrip {
			cr.SetLineWidth(c.pixels(2))
			if surrounded {
				paint.SetColor(cr, c.Palette.SelectedBorder)
			} else {
				paint.SetColor(cr, outlinecol)
			}
			cr.Stroke()
		}

		if img != nil {
			c.drawExtensionBadge(cr, img, width, height, bufWd, bufHt, fontcol)
		}
	}

	// a different mip than requested counts as missing unless it is the
	// 8x8 placeholder, which never improves
	if !bufSizeOK && bufWd != 8 && bufHt != 8 {
		missing = true
	}

	scale := 1.0
	var surface *paint.Surface

	if req.FullSurface != nil && *req.FullSurface != nil && *req.FullSurfaceLock == 0 {
		surface = *req.FullSurface
	} else if bufOK {
		rgb := make([]byte, bufWd*bufHt*4)
		c.convert(&buf, rgb)
		surface = paint.SurfaceForData(rgb, bufWd, bufHt)

		// keep the converted buffer for pan/zoom of the same preview
		if !missing && req.FullSurface != nil && *req.FullSurfaceLock == 0 {
			*req.FullSurfaceLock = 1
			*req.FullSurface = surface
			if req.FullBuf != nil {
				*req.FullBuf = rgb
			}
			*req.FullSurfaceHt = bufHt
			*req.FullSurfaceWd = bufWd
			*req.FullSurfaceMip = mip
			*req.FullSurfaceID = imgid
			*req.FullSurfaceLock = 0
		}
	}

	if surface != nil {
		if zoom == 1 && !imageOnly {
			tb := float64(c.BorderSize)
			scale = math.Min((width-2*tb)/float64(bufWd), (height-2*tb)/float64(bufHt)) * fz
		} else {
			scale = math.Min(width*imgwd/float64(bufWd), height*imgwd/float64(bufHt)) * fz
		}
	}

	// draw centered and fitted
	cr.Save()
	if imageOnly {
		// place the picture exactly at (px, py)
		cr.Translate(px, py)
	} else {
		cr.Translate(width/2, height/2)
	}
	cr.Scale(scale, scale)

	rectw, recth := width, height
	rectx, recty := 0.0, 0.0
	if bufOK {
		rectw = float64(bufWd)
		recth = float64(bufHt)
	}

	if surface != nil {
		// pan offset of the zoomed preview, clamped so the image stays in
		// the window
		fx, fy := 0.0, 0.0
		if fz > 1 {
			w, h := width, height
			if zoom == 1 && !imageOnly {
				w -= 2 * float64(c.BorderSize)
				h -= 2 * float64(c.BorderSize)
			}
			if bufSizeOK && req.FullMaxDX != nil && req.FullMaxDY != nil {
				*req.FullMaxDX = math.Max(0, (float64(bufWd)*scale-w)/2)
				*req.FullMaxDY = math.Max(0, (float64(bufHt)*scale-h)/2)
			}
			fx = math.Min((float64(bufWd)*scale-w)/2, math.Abs(req.FullX))
			if req.FullX < 0 {
				fx = -fx
			}
			if float64(bufWd)*scale <= w {
				fx = 0
			}
			fy = math.Min((float64(bufHt)*scale-h)/2, math.Abs(req.FullY))
			if req.FullY < 0 {
				fy = -fy
			}
			if float64(bufHt)*scale <= h {
				fy = 0
			}

			rectw = math.Min(w/scale, rectw)
			recth = math.Min(h/scale, recth)
			rectx = 0.5*float64(bufWd) - fx/scale - 0.5*rectw
			recty = 0.5*float64(bufHt) - fy/scale - 0.5*recth
		}

		if bufOK && fz == 1 && req.FullW1 != nil && req.FullH1 != nil {
			*req.FullW1 = float64(bufWd) * scale
			*req.FullH1 = float64(bufHt) * scale
		}

		if !imageOnly {
			cr.Translate(-0.5*float64(bufWd)+fx/scale, -0.5*float64(bufHt)+fy/scale)
		}
		cr.SetSourceSurface(surface, 0, 0)
		// nearest for the placeholder (big pixels wanted) and for exact 1:1;
		// anything in between just goes unsharp without smoothing
		if (bufWd <= 8 && bufHt <= 8) || math.Abs(scale-1) < 0.01 {
			cr.SetFilter(paint.FilterNearest)
		} else {
			cr.SetFilter(paint.FilterGood)
		}

		cr.Rectangle(rectx, recty, rectw, recth)
		cr.Fill()

		if c.FocusPeaking {
			cr.Save()
			cr.Rectangle(rectx, recty, rectw, recth)
			cr.Clip()
			focusPeaking(cr, surface)
			cr.Restore()
		}
	}

	if noDeco {
		cr.Restore()
		cr.Save()
		cr.NewPath()
	} else if bufOK {
		// border around the selected image in culling and filmstrip modes
		if selected && !req.Filmstrip && c.Palette.CullingSelectedBorder.A > 0 {
			c.drawRectBorder(cr, c.pixels(4.0/scale), rectx, recty, rectw, recth,
				c.Palette.CullingSelectedBorder)
		}
		if selected && req.Filmstrip && c.Palette.FilmstripSelectedBorder.A > 0 {
			c.drawRectBorder(cr, c.pixels(4.0/scale), rectx, recty, rectw, recth,
				c.Palette.FilmstripSelectedBorder)
		}
		if req.MouseOver && c.Palette.PreviewHoverBorder.A > 0 {
			c.drawRectBorder(cr, c.pixels(2.0/scale), rectx, recty, rectw, recth,
				c.Palette.PreviewHoverBorder)
		}
	}

	cr.Restore()

	cr.Save()
	z1Fontsize := math.Min(c.pixels(20), 0.91*width/10)
	if req.MouseOver && zoom != 1 {
		// darken the bottom strip so the overlays stay legible
		const top = 0.8528749999999999
		cr.SetLinearGradient(0, top*height, 0, height, []paint.GradientStop{
			{Offset: 0, Color: paint.Color{R: 0.5, G: 0.5, B: 0.5, A: 0}},
			{Offset: 0.25, Color: paint.Color{R: 0.5, G: 0.5, B: 0.5, A: 0.25}},
			{Offset: 1, Color: paint.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}},
		})
		cr.Rectangle(0, top*height, width, (1-top)*height)
		cr.Fill()
	}
	cr.Restore()

	if bufMipmap {
		c.Mips.Release(&buf)
	}
	if bufMipmap && !missing && req.FullSurface != nil && *req.FullSurfaceLock == 0 && mip >= Mip7 {
		// the copy in the preview slot serves pan/zoom from now on, so the
		// large cache level only wastes space
		c.Mips.EvictAtSize(imgid, mip)
	}

	cr.Save()

	if req.MouseOver || fullPreview || c.ShowOverlays || zoom == 1 {
		if drawMetadata && width > deco.DecorationSizeLimit {
			cr.SetLineWidth(c.pixels(1))
			paint.SetColor(cr, outlinecol)
			cr.SetLineJoin(paint.JoinRound)

			engine := c.decoEngine()
			rejected := img != nil && img.Rating() == 6

			// for preview, no frame except if rejected
			if zoom == 1 && !rejected {
				cr.NewPath()
			}

			if img != nil {
				if zoom != 1 && (!c.ShowOverlays || req.MouseOver) && engine.ExtendedOverlay {
					c.drawExtendedOverlay(cr, img, width, height, bgcol, outlinecol)
				}

				if !rejected { // if rejected: draw no stars
					for k := deco.Star1; k <= deco.Star5; k++ {
						if engine.Process(k, req.MouseOver || zoom == 1, cr, img,
							width, height, zoom, px, py, outlinecol, fontcol) {
							*req.ImageOver = k
						}
					}
				}
			}

			if engine.Process(deco.Reject, req.MouseOver || zoom == 1, cr, img,
				width, height, zoom, px, py, outlinecol, fontcol) {
				*req.ImageOver = deco.Reject
			}

			if drawAudio && img != nil && img.Flags&types.FlagHasAudio != 0 {
				if engine.Process(deco.Audio, req.MouseOver || zoom == 1, cr, img,
					width, height, zoom, px, py, outlinecol, fontcol) {
					*req.ImageOver = deco.Audio
				}
			}

			isGrouped := false
			if drawGrouping && c.Catalog != nil {
				isGrouped = c.Catalog.IsGrouped(imgid)
				if !isGrouped && img != nil && c.ExpandedGroupID == img.GroupID {
					c.ExpandedGroupID = types.NoImage
				}
			}
			if isGrouped && c.Grouping {
				if engine.Process(deco.Group, img != nil, cr, img,
					width, height, zoom, px, py, outlinecol, fontcol) {
					*req.ImageOver = deco.Group
				}
			}

			if drawHistory && c.Catalog != nil && c.Catalog.IsAltered(imgid) {
				if engine.Process(deco.Altered, img != nil, cr, img,
					width, height, zoom, px, py, outlinecol, fontcol) {
					c.CenterTooltip = true
				}
			}
		}
	}
	cr.Restore()

	// kill all paths, in case img was not loaded yet
	cr.NewPath()

	if drawColorlabels && (c.ShowOverlays || req.MouseOver || fullPreview || zoom == 1) &&
		width > deco.DecorationSizeLimit && c.Catalog != nil {
		c.drawColorLabels(cr, imgid, width, height, zoom, z1Fontsize)
	}

	if drawLocalCopy && img != nil && width > deco.DecorationSizeLimit &&
		img.Flags&types.FlagLocalCopy != 0 {
		cr.Save()
		if zoom != 1 {
			cr.MoveTo(width-z1Fontsize, 0)
			cr.LineTo(width, 0)
			cr.LineTo(width, z1Fontsize)
			cr.ClosePath()
		} else {
			cr.MoveTo(0, 0)
			cr.LineTo(1.5*z1Fontsize, 0)
			cr.LineTo(0, 1.5*z1Fontsize)
			cr.ClosePath()
		}
		cr.SetSourceRGB(1, 1, 1)
		cr.Fill()
		cr.Restore()
	}

	if drawMetadata && img != nil && zoom == 1 {
		cr.SetFontSize(z1Fontsize)
		cr.SetFontBold(true)
		cr.SetLineJoin(paint.JoinRound)
		cr.SetLineWidth(c.pixels(2))
		cr.SetSourceRGB(0.3, 0.3, 0.3)

		cr.MoveTo(z1Fontsize, z1Fontsize)
		cr.TextPath(img.Filename)
		cr.MoveTo(z1Fontsize, 2.25*z1Fontsize)
		cr.TextPath(img.Exif)
		cr.StrokePreserve()
		cr.SetSourceRGB(0.7, 0.7, 0.7)
		cr.Fill()
	}

	// custom metadata from the accompanying text file
	if drawMetadata && img != nil && img.Flags&types.FlagHasTxt != 0 && zoom == 1 &&
		c.Conf != nil && c.Conf.GetBool(config.KeyDrawCustomMetadata) {
		if path, ok := c.Catalog.TextPath(imgid); ok {
			c.drawSidecarText(cr, path, z1Fontsize)
		}
	}

	cr.Restore()

	if log.DebugEnabled() {
		log.Debugf("image expose took %0.04f sec", time.Since(start).Seconds())
	}
	return missing
}

func (c *Compositor) drawRectBorder(cr paint.Canvas, border, rectx, recty, rectw, recth float64, col paint.Color) {
	cr.SetLineWidth(border)
	cr.Rectangle(rectx-border/1.98, recty-border/1.98, rectw+0.99*border, recth+0.99*border)
	paint.SetColor(cr, col)
	cr.Stroke()
}

// drawExtensionBadge writes the uppercased extension (plus HDR / B&W tags)
// in the top left corner of the cell background, stacked vertically for
// portrait buffers.
func (c *Compositor) drawExtensionBadge(cr paint.Canvas, img *types.ImageInfo,
	width, height float64, bufWd, bufHt int, fontcol paint.Color) {

	fontsize := math.Min(c.pixels(20), 0.09*width)
	cr.SetFontSize(fontsize)
	cr.SetFontBold(true)
	paint.SetColor(cr, fontcol)

	badge := types.ExtendModesStr(img.Extension(), img.IsHDR(), img.IsMonochrome())

	if bufHt > bufWd {
		maxChrWidth := 0.0
		for _, r := range badge {
			ext := cr.TextExtents(string(r))
			maxChrWidth = math.Max(maxChrWidth, ext.Width)
		}
		yoffs := fontsize
		for _, r := range badge {
			ext := cr.TextExtents(string(r))
			cr.MoveTo(0.045*width+(maxChrWidth-ext.Width)/2, 0.045*height-yoffs+fontsize)
			cr.ShowText(string(r))
			yoffs -= fontsize
		}
	} else {
		cr.MoveTo(0.045*width, 0.045*height)
		cr.ShowText(badge)
	}
}

// drawExtendedOverlay paints the taller bottom strip with filename and EXIF
// summary above the star row.
func (c *Compositor) drawExtendedOverlay(cr paint.Canvas, img *types.ImageInfo,
	width, height float64, bgcol, outlinecol paint.Color) {

	r1 := math.Min(c.pixels(20), 0.91*width/10)
	fontsize := math.Min(c.pixels(16), 0.67*0.91*width/10)
	exifOffset := 0.045 * width
	lineOffs := 1.25 * fontsize
	overlayHeight := 2*exifOffset + r1 + 1.75*lineOffs

	y0 := height - overlayHeight

	cr.Save()
	cr.Rectangle(0, y0, width, overlayHeight)
	paint.SetColor(cr, bgcol)
	cr.Fill()

	cr.SetFontSize(fontsize)
	cr.SetFontBold(true)
	paint.SetColor(cr, outlinecol)

	cr.MoveTo(exifOffset, y0+exifOffset/2)
	cr.ShowText(img.Filename)
	cr.MoveTo(exifOffset, y0+exifOffset/2+lineOffs)
	cr.ShowText(img.Exif)
	cr.Restore()
}

// drawColorLabels paints the label swatches in the lower right corner (grid)
// or as a row under the preview metadata (zoom 1). When any label is set,
// the unset grid positions get the hollow marker.
func (c *Compositor) drawColorLabels(cr paint.Canvas, imgid types.ImageID,
	width, height float64, zoom int, z1Fontsize float64) {

	r := 0.0455 * width / 2
	x := [types.MaxColorLabels]float64{0.86425, 0.9325, 0.8983749999999999, 0.86425, 0.9325}
	y := [types.MaxColorLabels]float64{0.86425, 0.86425, 0.8983749999999999, 0.9325, 0.9325}

	painted := false
	var paintedCol [types.MaxColorLabels]bool

	for _, col := range c.Catalog.ColorLabels(imgid) {
		if col < types.MaxColorLabels || zoom == 1 {
			cr.Save()
			if zoom != 1 {
				paint.DrawLabel(cr, x[col]*width, y[col]*height, r*2, r*2, col)
			} else {
				paint.DrawLabel(cr, z1Fontsize+float64(col)*0.75*1.5*z1Fontsize,
					6.0*z1Fontsize, 0.75*z1Fontsize, 0.75*z1Fontsize, col)
			}
			painted = true
			paintedCol[col] = true
			cr.Restore()
		}
	}
	if painted && zoom != 1 {
		const dontFillCol = 7
		for i := 0; i < types.MaxColorLabels; i++ {
			if !paintedCol[i] {
				cr.Save()
				paint.DrawLabel(cr, x[i]*width, y[i]*height, r*2, r*2, dontFillCol)
				cr.Restore()
			}
		}
	}
}

// drawSidecarText renders the lines of the accompanying text file under the
// preview metadata block.
func (c *Compositor) drawSidecarText(cr paint.Canvas, path string, z1Fontsize float64) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	cr.SetFontSize(z1Fontsize)
	cr.SetFontBold(true)
	cr.SetLineWidth(c.pixels(2))
	cr.SetLineJoin(paint.JoinRound)

	sc := bufio.NewScanner(f)
	k := 0
	for sc.Scan() {
		cr.MoveTo(z1Fontsize, (float64(k)+7.0)*z1Fontsize)
		cr.SetSourceRGB(0.3, 0.3, 0.3)
		cr.TextPath(sc.Text())
		cr.StrokePreserve()
		cr.SetSourceRGB(0.7, 0.7, 0.7)
		cr.Fill()
		k++
	}
}

// ImageOnlyExpose draws just the image pixels at the given offset, without
// background or decorations.
func (c *Compositor) ImageOnlyExpose(imgid types.ImageID, cr paint.Canvas,
	width, height, offsetx, offsety float64) {

	over := deco.Desert
	req := &Request{
		ImageOver:   &over,
		ImageID:     imgid,
		Canvas:      cr,
		Width:       width,
		Height:      height,
		Px:          offsetx,
		Py:          offsety,
		Zoom:        1,
		ImageOnly:   true,
		FullPreview: true,
	}
	c.Expose(req)
}
