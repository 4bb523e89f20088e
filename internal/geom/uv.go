package geom

// Corner indexes a TileUV.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// TileUV holds the texture coordinates of an atlas tile's corners,
// ordered top-left, top-right, bottom-right, bottom-left.
type TileUV [4][2]float32

// UnitTile covers the whole texture.
var UnitTile = TileUV{
	TopLeft:     {0, 0},
	TopRight:    {1, 0},
	BottomRight: {1, 1},
	BottomLeft:  {0, 1},
}
