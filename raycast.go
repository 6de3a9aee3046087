package oasis

import (
	"sort"

	"github.com/akmonengine/oasis/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Hit is one ray/object intersection
type Hit struct {
	Object   *actor.Object
	Distance float64 // along the ray
	Point    mgl64.Vec3
}

// BroadPhase rebuilds the grid from the current object bounds and returns the
// indices of objects whose cells the ray crosses. Without a grid every object
// is a candidate.
func BroadPhase(spatialGrid *SpatialGrid, objects []*actor.Object, ray actor.Ray, maxDistance float64) []int {
	if spatialGrid == nil {
		all := make([]int, len(objects))
		for i := range all {
			all[i] = i
		}
		return all
	}

	spatialGrid.Clear()
	for i, object := range objects {
		spatialGrid.Insert(i, object)
	}

	return spatialGrid.Candidates(ray, maxDistance, len(objects))
}

// NarrowPhase runs the exact shape tests and returns hits nearest-first.
// Equal distances keep registration order.
func NarrowPhase(ray actor.Ray, objects []*actor.Object, candidates []int, maxDistance float64, workersCount int) []Hit {
	results := make([]Hit, len(candidates))
	found := make([]bool, len(candidates))

	task(workersCount, candidates, func(i int, objectIndex int) {
		object := objects[objectIndex]
		distance, ok := object.Raycast(ray)
		if !ok || distance > maxDistance {
			return
		}
		results[i] = Hit{Object: object, Distance: distance, Point: ray.At(distance)}
		found[i] = true
	})

	hits := make([]Hit, 0, len(candidates))
	for i, ok := range found {
		if ok {
			hits = append(hits, results[i])
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})
	return hits
}

// Raycast returns every object hit by the ray within maxDistance, nearest-first
func Raycast(spatialGrid *SpatialGrid, objects []*actor.Object, ray actor.Ray, maxDistance float64, workersCount int) []Hit {
	candidates := BroadPhase(spatialGrid, objects, ray, maxDistance)
	return NarrowPhase(ray, objects, candidates, maxDistance, workersCount)
}
