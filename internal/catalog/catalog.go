// Package catalog is the SQLite-backed image catalog: which images exist,
// which are selected, their color labels and edit history. It answers the
// per-image questions the view layer asks every frame, so the queries stay
// tiny and indexed.
package catalog

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"lumen/internal/errors"
	"lumen/internal/log"
	"lumen/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id       INTEGER PRIMARY KEY,
	group_id INTEGER NOT NULL,
	filename TEXT    NOT NULL,
	flags    INTEGER NOT NULL DEFAULT 0,
	exif     TEXT    NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS images_group_id ON images (group_id);

CREATE TABLE IF NOT EXISTS selected_images (
	imgid INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS color_labels (
	imgid INTEGER NOT NULL,
	color INTEGER NOT NULL,
	PRIMARY KEY (imgid, color)
);

CREATE TABLE IF NOT EXISTS history (
	imgid     INTEGER NOT NULL,
	num       INTEGER NOT NULL,
	operation TEXT    NOT NULL,
	PRIMARY KEY (imgid, num)
);
`

// Catalog wraps the catalog database. Safe for concurrent use; database/sql
// serializes access to the single connection.
type Catalog struct {
	db *sql.DB
}

// Open opens (and if needed creates) the catalog at path. ":memory:" gives
// a throwaway catalog.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create catalog schema")
	}
	return &Catalog{db: db}, nil
}

// Close releases the database.
func (c *Catalog) Close() error { return c.db.Close() }

// AddImage inserts or replaces an image record. position fixes the
// collection order used by SelectedOrdered.
func (c *Catalog) AddImage(info types.ImageInfo, position int) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO images (id, group_id, filename, flags, exif, position)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID, info.GroupID, info.Filename, info.Flags, info.Exif, position)
	return errors.Wrapf(err, "add image %d", info.ID)
}

// Image returns the record for one image.
func (c *Catalog) Image(id types.ImageID) (types.ImageInfo, bool) {
	var info types.ImageInfo
	err := c.db.QueryRow(
		`SELECT id, group_id, filename, flags, exif FROM images WHERE id = ?`, id).
		Scan(&info.ID, &info.GroupID, &info.Filename, &info.Flags, &info.Exif)
	if err == sql.ErrNoRows {
		return types.ImageInfo{}, false
	}
	if err != nil {
		log.Errorf("image lookup %d: %v", id, err)
		return types.ImageInfo{}, false
	}
	return info, true
}

// Get is Image under the name the view layer expects.
func (c *Catalog) Get(id types.ImageID) (types.ImageInfo, bool) { return c.Image(id) }

// SetFlags updates an image's flag word.
func (c *Catalog) SetFlags(id types.ImageID, flags types.ImageFlags) error {
	_, err := c.db.Exec(`UPDATE images SET flags = ? WHERE id = ?`, flags, id)
	return errors.Wrapf(err, "set flags of %d", id)
}

// IsSelected reports whether the image carries the selection bit.
func (c *Catalog) IsSelected(id types.ImageID) bool {
	var one int
	err := c.db.QueryRow(`SELECT 1 FROM selected_images WHERE imgid = ?`, id).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		log.Errorf("selection lookup %d: %v", id, err)
	}
	return err == nil
}

// SetSelection sets or clears the selection bit of one image.
func (c *Catalog) SetSelection(id types.ImageID, value bool) error {
	var err error
	if value {
		_, err = c.db.Exec(`INSERT OR IGNORE INTO selected_images (imgid) VALUES (?)`, id)
	} else {
		_, err = c.db.Exec(`DELETE FROM selected_images WHERE imgid = ?`, id)
	}
	return errors.Wrapf(err, "set selection of %d", id)
}

// ToggleSelection flips the selection bit of one image.
func (c *Catalog) ToggleSelection(id types.ImageID) error {
	return c.SetSelection(id, !c.IsSelected(id))
}

// ClearSelection empties the selection.
func (c *Catalog) ClearSelection() error {
	_, err := c.db.Exec(`DELETE FROM selected_images`)
	return errors.Wrapf(err, "clear selection")
}

// SelectedOrdered returns the selected images in collection order.
func (c *Catalog) SelectedOrdered() []types.ImageID {
	rows, err := c.db.Query(
		`SELECT i.id FROM images AS i, selected_images AS s
		 WHERE i.id = s.imgid ORDER BY i.position, i.id`)
	if err != nil {
		log.Errorf("selection query: %v", err)
		return nil
	}
	defer rows.Close()
	return scanIDs(rows)
}

// Collection returns every catalog image in collection order.
func (c *Catalog) Collection() []types.ImageID {
	rows, err := c.db.Query(`SELECT id FROM images ORDER BY position, id`)
	if err != nil {
		log.Errorf("collection query: %v", err)
		return nil
	}
	defer rows.Close()
	return scanIDs(rows)
}

// HasCollection reports whether any images are in the catalog at all.
func (c *Catalog) HasCollection() bool {
	var one int
	err := c.db.QueryRow(`SELECT 1 FROM images LIMIT 1`).Scan(&one)
	return err == nil
}

// IsGrouped reports whether the image shares its group with at least one
// other catalog image.
func (c *Catalog) IsGrouped(id types.ImageID) bool {
	var one int
	err := c.db.QueryRow(
		`SELECT 1 FROM images
		 WHERE group_id = (SELECT group_id FROM images WHERE id = ?1) AND id <> ?1
		 LIMIT 1`, id).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		log.Errorf("group lookup %d: %v", id, err)
	}
	return err == nil
}

// GroupMembers returns every catalog image of a group, in collection order.
func (c *Catalog) GroupMembers(groupID types.ImageID) []types.ImageID {
	rows, err := c.db.Query(
		`SELECT id FROM images WHERE group_id = ? ORDER BY position, id`, groupID)
	if err != nil {
		log.Errorf("group members query %d: %v", groupID, err)
		return nil
	}
	defer rows.Close()
	return scanIDs(rows)
}

// ColorLabels returns the label indices set on an image, ascending.
func (c *Catalog) ColorLabels(id types.ImageID) []int {
	rows, err := c.db.Query(
		`SELECT color FROM color_labels WHERE imgid = ? ORDER BY color`, id)
	if err != nil {
		log.Errorf("color labels query %d: %v", id, err)
		return nil
	}
	defer rows.Close()

	var labels []int
	for rows.Next() {
		var col int
		if err := rows.Scan(&col); err != nil {
			log.Errorf("color labels scan: %v", err)
			return labels
		}
		labels = append(labels, col)
	}
	return labels
}

// SetColorLabel adds one label to an image; setting it again is a no-op.
func (c *Catalog) SetColorLabel(id types.ImageID, color int) error {
	_, err := c.db.Exec(
		`INSERT OR IGNORE INTO color_labels (imgid, color) VALUES (?, ?)`, id, color)
	return errors.Wrapf(err, "set color label %d on %d", color, id)
}

// RemoveColorLabel drops one label from an image.
func (c *Catalog) RemoveColorLabel(id types.ImageID, color int) error {
	_, err := c.db.Exec(
		`DELETE FROM color_labels WHERE imgid = ? AND color = ?`, id, color)
	return errors.Wrapf(err, "remove color label %d from %d", color, id)
}

// IsAltered reports whether the image has a non-empty edit history.
func (c *Catalog) IsAltered(id types.ImageID) bool {
	var one int
	err := c.db.QueryRow(`SELECT 1 FROM history WHERE imgid = ? LIMIT 1`, id).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		log.Errorf("history lookup %d: %v", id, err)
	}
	return err == nil
}

// AppendHistory records one edit operation on an image.
func (c *Catalog) AppendHistory(id types.ImageID, operation string) error {
	_, err := c.db.Exec(
		`INSERT INTO history (imgid, num, operation)
		 VALUES (?, COALESCE((SELECT MAX(num) + 1 FROM history WHERE imgid = ?), 0), ?)`,
		id, id, operation)
	return errors.Wrapf(err, "append history on %d", id)
}

// TextPath returns the path of the image's sidecar text file, when the
// image declares one.
func (c *Catalog) TextPath(id types.ImageID) (string, bool) {
	return c.sidecarPath(id, types.FlagHasTxt, ".txt")
}

// AudioPath returns the path of the image's sidecar audio note, when the
// image declares one.
func (c *Catalog) AudioPath(id types.ImageID) (string, bool) {
	return c.sidecarPath(id, types.FlagHasAudio, ".wav")
}

func (c *Catalog) sidecarPath(id types.ImageID, flag types.ImageFlags, ext string) (string, bool) {
	info, ok := c.Image(id)
	if !ok || info.Flags&flag == 0 {
		return "", false
	}
	base := info.Filename
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	return base + ext, true
}

func scanIDs(rows *sql.Rows) []types.ImageID {
	var ids []types.ImageID
	for rows.Next() {
		var id types.ImageID
		if err := rows.Scan(&id); err != nil {
			log.Errorf("id scan: %v", err)
			return ids
		}
		ids = append(ids, id)
	}
	return ids
}
