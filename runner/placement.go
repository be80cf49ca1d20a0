package runner

import "math/rand"

// Point is a 2D placement coordinate.
type Point struct {
	X, Y float64
}

// Grid places count nodes on a square grid spanning terrainSize, with
// cellSize controlling grid pitch and jitter drawn from rng. This
// mirrors the intent of original_source/wsnlab's random placement
// within a bounded terrain (spec §6: SIM_NODE_PLACING_CELL_SIZE,
// SIM_TERRAIN_SIZE), kept deterministic by drawing jitter from the
// simulation's own seeded PRNG rather than an unseeded source.
func Grid(count int, cellSize, terrainSize float64, rng *rand.Rand) []Point {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(terrainSize / cellSize)
	if cols <= 0 {
		cols = 1
	}
	points := make([]Point, count)
	for i := 0; i < count; i++ {
		row := i / cols
		col := i % cols
		jx := (rng.Float64() - 0.5) * cellSize
		jy := (rng.Float64() - 0.5) * cellSize
		points[i] = Point{
			X: float64(col)*cellSize + cellSize/2 + jx,
			Y: float64(row)*cellSize + cellSize/2 + jy,
		}
	}
	return points
}
