// Package atlas stitches named square tiles into one RGBA sheet and
// records where each tile landed in normalized texture coordinates.
package atlas

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voxel-overlays/internal/geom"

	"golang.org/x/image/draw"
)

var (
	ErrNoTiles       = errors.New("atlas: no tiles")
	ErrDuplicateTile = errors.New("atlas: duplicate tile")
)

// Source is one named tile image.
type Source struct {
	Name  string
	Image image.Image
}

// Sheet is a stitched atlas image plus the UV rectangle of every tile.
type Sheet struct {
	Image *image.RGBA
	Tiles map[string]geom.TileUV
}

// Stitch lays sources out row by row on a square grid of tileSize cells.
// Tiles that are not tileSize square are scaled with nearest-neighbour
// filtering so pixel art stays crisp.
func Stitch(sources []Source, tileSize int) (*Sheet, error) {
	if len(sources) == 0 {
		return nil, ErrNoTiles
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("atlas: invalid tile size %d", tileSize)
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(sources)))))
	rows := (len(sources) + cols - 1) / cols
	w, h := cols*tileSize, rows*tileSize

	sheet := &Sheet{
		Image: image.NewRGBA(image.Rect(0, 0, w, h)),
		Tiles: make(map[string]geom.TileUV, len(sources)),
	}

	for i, src := range sources {
		if _, dup := sheet.Tiles[src.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTile, src.Name)
		}
		x, y := (i%cols)*tileSize, (i/cols)*tileSize
		cell := image.Rect(x, y, x+tileSize, y+tileSize)

		b := src.Image.Bounds()
		if b.Dx() == tileSize && b.Dy() == tileSize {
			draw.Draw(sheet.Image, cell, src.Image, b.Min, draw.Src)
		} else {
			draw.NearestNeighbor.Scale(sheet.Image, cell, src.Image, b, draw.Src, nil)
		}

		sheet.Tiles[src.Name] = tileUV(cell, w, h)
	}
	return sheet, nil
}

func tileUV(r image.Rectangle, w, h int) geom.TileUV {
	u0 := float32(r.Min.X) / float32(w)
	u1 := float32(r.Max.X) / float32(w)
	v0 := float32(r.Min.Y) / float32(h)
	v1 := float32(r.Max.Y) / float32(h)

	var uv geom.TileUV
	uv[geom.TopLeft] = [2]float32{u0, v0}
	uv[geom.TopRight] = [2]float32{u1, v0}
	uv[geom.BottomRight] = [2]float32{u1, v1}
	uv[geom.BottomLeft] = [2]float32{u0, v1}
	return uv
}

// LoadDir decodes every PNG in dir. Tiles are named after their file
// without the extension and returned sorted by name.
func LoadDir(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read texture dir %s: %w", dir, err)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		img, err := loadImage(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{
			Name:  strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Image: img,
		})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	return img, nil
}
