package oasis

import "sync"

// task splits data into workersCount contiguous chunks and runs fn on each
// element. fn receives the element index so workers can write to disjoint slots.
func task[T any](workersCount int, data []T, fn func(i int, data T)) {
	dataSize := len(data)
	if workersCount <= 1 || dataSize <= 1 {
		for i, d := range data {
			fn(i, d)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start := workerID * chunkSize
		end := min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}(start, end)
	}
	wg.Wait()
}
