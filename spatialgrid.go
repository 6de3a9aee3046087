package oasis

import (
	"math"
	"sort"

	"github.com/akmonengine/oasis/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// maxCellsPerObject bounds how many cells one object may cover before it is
// tracked as unbounded and tested against every ray instead
const maxCellsPerObject = 512

// ============================================================================
// Types
// ============================================================================

// CellKey - coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - object indices stored in a cell
type Cell struct {
	objectIndices []int
}

// SpatialGrid - hashed uniform grid used as the ray-cast broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	// Objects too large for the grid (planes): always candidates
	unbounded []int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid - creates a grid with numCells hashed buckets (rounded up to a power of two)
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].objectIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - rounds up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - adds an object to every cell its AABB covers
func (sg *SpatialGrid) Insert(objectIndex int, object *actor.Object) {
	aabb := object.Shape.GetAABB()
	if aabb.IsUnbounded() {
		sg.unbounded = append(sg.unbounded, objectIndex)
		return
	}

	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	covered := (maxCell.X - minCell.X + 1) * (maxCell.Y - minCell.Y + 1) * (maxCell.Z - minCell.Z + 1)
	if covered > maxCellsPerObject {
		sg.unbounded = append(sg.unbounded, objectIndex)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				sg.cells[cellIdx].objectIndices = append(
					sg.cells[cellIdx].objectIndices,
					objectIndex,
				)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].objectIndices = sg.cells[i].objectIndices[:0]
	}
	sg.unbounded = sg.unbounded[:0]
}

// Candidates walks the cells pierced by the ray (3D DDA) up to maxDistance and
// returns the indices of objects stored in them, sorted and without duplicates.
// objectCount is the size of the indexed object slice.
func (sg *SpatialGrid) Candidates(ray actor.Ray, maxDistance float64, objectCount int) []int {
	seen := make([]bool, objectCount)
	candidates := make([]int, 0, len(sg.unbounded)+8)

	add := func(indices []int) {
		for _, idx := range indices {
			if !seen[idx] {
				seen[idx] = true
				candidates = append(candidates, idx)
			}
		}
	}
	add(sg.unbounded)

	start := sg.worldToCell(ray.Origin)
	cell := [3]int{start.X, start.Y, start.Z}

	var step [3]int
	var tMax, tDelta [3]float64
	for i := 0; i < 3; i++ {
		d := ray.Direction[i]
		switch {
		case d > mgl64.Epsilon:
			step[i] = 1
			tMax[i] = (float64(cell[i]+1)*sg.cellSize - ray.Origin[i]) / d
			tDelta[i] = sg.cellSize / d
		case d < -mgl64.Epsilon:
			step[i] = -1
			tMax[i] = (float64(cell[i])*sg.cellSize - ray.Origin[i]) / d
			tDelta[i] = -sg.cellSize / d
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	maxSteps := 3*int(math.Ceil(maxDistance/sg.cellSize)) + 3
	for t, steps := 0.0, 0; t <= maxDistance && steps < maxSteps; steps++ {
		add(sg.cells[sg.hashCell(CellKey{cell[0], cell[1], cell[2]})].objectIndices)

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}

	sort.Ints(candidates)
	return candidates
}

// worldToCell - converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - hashes a cell to an index in the bucket array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
