package blobs

import (
	"math"

	"github.com/arthurkushman/go-hungarian"
)

// MatchingAlgorithm is for algorithm type for matching detections to active blobs
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmGreedy pairs each detection with its nearest blob, closest pairs first. Does not allocate
	MatchingAlgorithmGreedy MatchingAlgorithm = iota
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment.
	// Builds a similarity matrix on every frame
	MatchingAlgorithmHungarian
	// MatchingAlgorithmIoU pairs detections with blobs by overlap of their boxes, falling back to
	// centroid distance for small contacts which moved off their previous box. Best scores first
	MatchingAlgorithmIoU
)

func (algorithm MatchingAlgorithm) String() string {
	switch algorithm {
	case MatchingAlgorithmGreedy:
		return "greedy"
	case MatchingAlgorithmHungarian:
		return "hungarian"
	case MatchingAlgorithmIoU:
		return "iou"
	default:
		return "unknown"
	}
}

// ParseMatchingAlgorithm returns algorithm by its name. Unknown names fall back to greedy
func ParseMatchingAlgorithm(name string) MatchingAlgorithm {
	switch name {
	case MatchingAlgorithmHungarian.String():
		return MatchingAlgorithmHungarian
	case MatchingAlgorithmIoU.String():
		return MatchingAlgorithmIoU
	default:
		return MatchingAlgorithmGreedy
	}
}

// distanceTo returns the smallest of distances to current and predicted centroids of the slot
func (tracker *Tracker) distanceTo(ref Ref, centroid Point) float64 {
	dist := euclideanDistance(centroid, tracker.pool.nodes[ref].Centroid)
	distPredicted := euclideanDistance(centroid, tracker.predicted[ref])
	return math.Min(dist, distPredicted)
}

// matchGreedy fills min-heap with (detection, nearest blob) pairs and resolves them closest first.
// When nearest blob is already taken by a closer detection, the detection becomes a new blob.
func (tracker *Tracker) matchGreedy(detections []Detection) error {
	tracker.queue = tracker.queue[:0]
	for i := range detections {
		if !tracker.accepts(detections[i]) {
			continue
		}
		minID := NilRef
		minDistance := math.MaxFloat64
		for ref := range tracker.active.All() {
			distance := tracker.distanceTo(ref, detections[i].Centroid)
			if distance < minDistance {
				minDistance = distance
				minID = ref
			}
		}
		tracker.queue.Push(distanceMatch{detection: i, slot: minID, distance: minDistance})
	}
	for tracker.queue.Len() > 0 {
		item := tracker.queue.Pop()
		if item.slot == NilRef || tracker.reserved[item.slot] || item.distance >= tracker.minDistThreshold {
			tracker.spawn(detections[item.detection])
			continue
		}
		if err := tracker.update(item.slot, detections[item.detection]); err != nil {
			return err
		}
	}
	return nil
}

// matchHungarian solves the assignment over similarity 1/(1+distance); pairs beyond threshold have zero similarity
func (tracker *Tracker) matchHungarian(detections []Detection) error {
	tracker.slots = tracker.slots[:0]
	for ref := range tracker.active.All() {
		tracker.slots = append(tracker.slots, ref)
	}
	tracker.candidates = tracker.candidates[:0]
	for i := range detections {
		if tracker.accepts(detections[i]) {
			tracker.candidates = append(tracker.candidates, i)
		}
	}
	numBlobs := len(tracker.slots)
	numDetections := len(tracker.candidates)
	matched := make([]bool, numDetections)

	if numBlobs > 0 && numDetections > 0 {
		size := max(numBlobs, numDetections)
		// Padding is done with zero similarity
		similarity := make([][]float64, size)
		for i := range similarity {
			similarity[i] = make([]float64, size)
		}
		for i, ref := range tracker.slots {
			for j, detIdx := range tracker.candidates {
				distance := tracker.distanceTo(ref, detections[detIdx].Centroid)
				if distance < tracker.minDistThreshold {
					similarity[i][j] = 1.0 / (1.0 + distance)
				}
			}
		}
		assignments := hungarian.SolveMax(similarity)
		// Map order is random, walk blobs in list order
		for blobIdx := 0; blobIdx < numBlobs; blobIdx++ {
			for detIdx := range assignments[blobIdx] {
				if detIdx >= numDetections || similarity[blobIdx][detIdx] <= 0 {
					continue
				}
				if err := tracker.update(tracker.slots[blobIdx], detections[tracker.candidates[detIdx]]); err != nil {
					return err
				}
				matched[detIdx] = true
			}
		}
	}
	for j, detIdx := range tracker.candidates {
		if !matched[j] {
			tracker.spawn(detections[detIdx])
		}
	}
	return nil
}

// scoreIoU combines box overlap with centroid distance into a similarity in [0, 1].
// Pairs without overlap and farther than threshold distance score 0
func (tracker *Tracker) scoreIoU(ref Ref, detection Detection) float64 {
	overlap := iou(detection.Box, tracker.predictedBoxes[ref])
	distance := tracker.distanceTo(ref, detection.Centroid)
	distanceScore := 1.0 / (1.0 + distance)
	if overlap > 0.05 {
		return overlap*0.8 + distanceScore*0.2
	}
	if distance >= tracker.minDistThreshold {
		return 0
	}
	// Lower weight for pure distance matching
	return distanceScore * 0.5
}

// matchIoU resolves (detection, best scoring blob) pairs highest score first.
// The heap is ordered by 1-score so it stays a min-heap.
func (tracker *Tracker) matchIoU(detections []Detection) error {
	tracker.queue = tracker.queue[:0]
	for i := range detections {
		if !tracker.accepts(detections[i]) {
			continue
		}
		maxID := NilRef
		maxScore := 0.0
		for ref := range tracker.active.All() {
			score := tracker.scoreIoU(ref, detections[i])
			if score > maxScore {
				maxScore = score
				maxID = ref
			}
		}
		tracker.queue.Push(distanceMatch{detection: i, slot: maxID, distance: 1.0 - maxScore})
	}
	for tracker.queue.Len() > 0 {
		item := tracker.queue.Pop()
		score := 1.0 - item.distance
		if item.slot == NilRef || tracker.reserved[item.slot] || score <= tracker.iouThreshold {
			tracker.spawn(detections[item.detection])
			continue
		}
		if err := tracker.update(item.slot, detections[item.detection]); err != nil {
			return err
		}
	}
	return nil
}
