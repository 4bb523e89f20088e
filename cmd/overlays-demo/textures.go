package main

import (
	"image"
	"image/color"

	"voxel-overlays/internal/atlas"
)

// demoTextures draws the tiles the default config refers to. The arrow
// points at the top edge of the tile and carries a marker in its top-left
// corner, so upside-down and mirrored decals are both obvious.
func demoTextures(size int) []atlas.Source {
	arrow := image.NewRGBA(image.Rect(0, 0, size, size))
	mid := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// head: a triangle in the top half
			if y < mid && x >= mid-y && x <= mid+y-1 {
				arrow.SetRGBA(x, y, color.RGBA{230, 60, 40, 255})
			}
			// shaft
			if y >= mid && x >= mid-size/8 && x < mid+size/8 {
				arrow.SetRGBA(x, y, color.RGBA{230, 60, 40, 255})
			}
			// marker
			if x < size/4 && y < size/4 {
				arrow.SetRGBA(x, y, color.RGBA{40, 80, 220, 255})
			}
		}
	}

	stripes := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{250, 210, 40, 255}
			if (x+y)/(size/4)%2 == 1 {
				c = color.RGBA{30, 30, 30, 255}
			}
			stripes.SetRGBA(x, y, c)
		}
	}

	return []atlas.Source{
		{Name: "arrow", Image: arrow},
		{Name: "stripes", Image: stripes},
	}
}
