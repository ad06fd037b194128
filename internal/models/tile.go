package models

import "fmt"

// TileKey identifies a slippy-map tile.
type TileKey struct {
	Zoom int
	X    int
	Y    int
}

func (k TileKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Zoom, k.X, k.Y)
}

// Tile is one persisted unit of the tiled view: the features that map into
// the tile at its zoom plus the network edges anchored at those features.
// Serialized as a GeoJSON FeatureCollection with a networks extension, the
// shape the map front end loads on demand.
type Tile struct {
	Type     string        `json:"type"`
	Features []Feature     `json:"features"`
	Networks []NetworkEdge `json:"networks"`
}

func NewTile() *Tile {
	return &Tile{
		Type:     "FeatureCollection",
		Features: []Feature{},
		Networks: []NetworkEdge{},
	}
}

// TileIndexEntry summarizes one tile in the index.
type TileIndexEntry struct {
	Cameras  int    `json:"cameras"`
	Networks int    `json:"networks"`
	Path     string `json:"path"`
}

// TileIndex is the single summary unit written next to the tiles. The sum of
// Cameras over all entries equals TotalCameras: tiling is a strict partition
// of the placed features.
type TileIndex struct {
	Zoom         int                       `json:"zoom"`
	Tiles        map[string]TileIndexEntry `json:"tiles"`
	TotalCameras int                       `json:"total_cameras"`
}

func NewTileIndex(zoom int) *TileIndex {
	return &TileIndex{Zoom: zoom, Tiles: make(map[string]TileIndexEntry)}
}
