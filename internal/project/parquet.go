package project

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pixel-adventure/spritekit/internal/models"
)

// frameRow is one frame of one sprite set, flattened.
type frameRow struct {
	SpriteID   string `parquet:"sprite_id"`
	Name       string `parquet:"name"`
	Style      string `parquet:"style"`
	Object     string `parquet:"object"`
	Action     string `parquet:"action"`
	Background string `parquet:"background"`
	Prompt     string `parquet:"prompt"`
	CreatedAt  string `parquet:"created_at"`
	FrameIndex int64  `parquet:"frame_index"`
	Filename   string `parquet:"filename"`
	X          int64  `parquet:"x"`
	Y          int64  `parquet:"y"`
	Width      int64  `parquet:"width"`
	Height     int64  `parquet:"height"`
	MIMEType   string `parquet:"mime_type"`
	ImageData  []byte `parquet:"image_data"`
}

// ExportParquet writes one row per frame.
func ExportParquet(w io.Writer, sets []*models.SpriteSet) error {
	var rows []frameRow
	for _, set := range sets {
		for _, f := range set.Frames {
			rows = append(rows, frameRow{
				SpriteID:   set.ID,
				Name:       set.Name,
				Style:      set.Metadata.Style,
				Object:     set.Metadata.Object,
				Action:     set.Metadata.Action,
				Background: set.Metadata.Background,
				Prompt:     set.Metadata.Prompt,
				CreatedAt:  set.Metadata.CreatedAt.UTC().Format(time.RFC3339Nano),
				FrameIndex: int64(f.Index),
				Filename:   f.Filename,
				X:          int64(f.X),
				Y:          int64(f.Y),
				Width:      int64(f.Width),
				Height:     int64(f.Height),
				MIMEType:   f.MIMEType,
				ImageData:  f.Data,
			})
		}
	}

	writer := parquet.NewGenericWriter[frameRow](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	slog.Debug("Wrote parquet project", "sprite_sets", len(sets), "rows", len(rows))
	return nil
}

// ImportParquet regroups rows by sprite set in first-seen order and orders
// frames by frame_index.
func ImportParquet(r io.ReaderAt, size int64) ([]*models.SpriteSet, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[frameRow](pf)
	defer reader.Close()

	var all []frameRow
	batch := make([]frameRow, 128)
	for {
		n, err := reader.Read(batch)
		all = append(all, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	if len(all) == 0 {
		return nil, ErrInvalidFormat
	}

	byID := make(map[string]*models.SpriteSet)
	indexes := make(map[string][]int64)
	var order []string
	for _, row := range all {
		set, ok := byID[row.SpriteID]
		if !ok {
			created, _ := time.Parse(time.RFC3339Nano, row.CreatedAt)
			set = &models.SpriteSet{
				ID:   row.SpriteID,
				Name: row.Name,
				Metadata: models.Metadata{
					Style:      row.Style,
					Object:     row.Object,
					Action:     row.Action,
					Background: row.Background,
					Prompt:     row.Prompt,
					CreatedAt:  created,
				},
			}
			byID[row.SpriteID] = set
			order = append(order, row.SpriteID)
		}
		set.Frames = append(set.Frames, models.Frame{
			X: int(row.X), Y: int(row.Y), Width: int(row.Width), Height: int(row.Height),
			MIMEType: row.MIMEType, Data: row.ImageData,
		})
		indexes[row.SpriteID] = append(indexes[row.SpriteID], row.FrameIndex)
	}

	sets := make([]*models.SpriteSet, 0, len(order))
	for _, id := range order {
		set := byID[id]
		idx := indexes[id]
		sort.Stable(byFrameIndex{frames: set.Frames, index: idx})
		frames := set.Frames
		set.Frames = nil
		for _, f := range frames {
			set.AddFrame(f)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

type byFrameIndex struct {
	frames []models.Frame
	index  []int64
}

func (b byFrameIndex) Len() int           { return len(b.frames) }
func (b byFrameIndex) Less(i, j int) bool { return b.index[i] < b.index[j] }
func (b byFrameIndex) Swap(i, j int) {
	b.frames[i], b.frames[j] = b.frames[j], b.frames[i]
	b.index[i], b.index[j] = b.index[j], b.index[i]
}
