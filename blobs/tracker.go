package blobs

import (
	"iter"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

const (
	activeListName = "active"
	freshListName  = "fresh"
)

// Tracker follows contact blobs frame to frame on top of a fixed Pool.
// Blobs found on the current frame are associated with active blobs by centroid distance;
// unmatched detections take a free slot, and blobs missing for too long are dead-marked, then released.
type Tracker struct {
	pool *Pool
	// Blobs tracked across frames
	active *BlobList
	// Blobs born on the current frame. Drained into active at the end of Match
	fresh *BlobList

	// Per-slot state, indexed by Ref
	filters   []*kalman_filter.Kalman2D
	predicted []Point
	// Last box moved along with the predicted centroid
	predictedBoxes []Rectangle
	noMatch        []int
	reserved       []bool
	// idInUse[id] is true while some active blob carries id
	idInUse []bool

	// Threshold distance (in upsampled grid cells). Default 8.0
	minDistThreshold float64
	// Max no match (max number of frames when blob could not be found again). Default is 3
	maxNoMatch int
	// Detections smaller than this are ignored. Default 1
	minPixels uint32
	// Pairs scoring at or below this are not matched by MatchingAlgorithmIoU. Default 0.0
	iouThreshold float64
	algorithm    MatchingAlgorithm
	smoothing    bool
	dt           float64

	observer Observer
	frame    uint64

	// Scratch buffers reused across frames
	queue      distanceHeap
	expired    []Ref
	slots      []Ref
	candidates []int
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMatchingAlgorithm sets the association algorithm. Default is greedy
func WithMatchingAlgorithm(algorithm MatchingAlgorithm) TrackerOption {
	return func(tracker *Tracker) {
		tracker.algorithm = algorithm
	}
}

// WithMinPixels sets the smallest detection which may become a blob
func WithMinPixels(minPixels uint32) TrackerOption {
	return func(tracker *Tracker) {
		tracker.minPixels = minPixels
	}
}

// WithIoUThreshold sets the lowest score accepted by MatchingAlgorithmIoU
func WithIoUThreshold(threshold float64) TrackerOption {
	return func(tracker *Tracker) {
		tracker.iouThreshold = threshold
	}
}

// WithSmoothing enables or disables Kalman smoothing of centroids. Enabled by default
func WithSmoothing(enabled bool) TrackerOption {
	return func(tracker *Tracker) {
		tracker.smoothing = enabled
	}
}

// WithTimeStep sets the time between two frames for the Kalman model (in seconds). Default 1.0
func WithTimeStep(dt float64) TrackerOption {
	return func(tracker *Tracker) {
		if dt > 0 {
			tracker.dt = dt
		}
	}
}

// WithTrackerObserver sets the observer of the underlying pool and lists
func WithTrackerObserver(observer Observer) TrackerOption {
	return func(tracker *Tracker) {
		if observer != nil {
			tracker.observer = observer
		}
	}
}

// NewTrackerDefault creates tracker with default thresholds
func NewTrackerDefault(capacity int, options ...TrackerOption) *Tracker {
	return NewTracker(capacity, 8.0, 3, options...)
}

// NewTracker creates tracker able to follow at most capacity blobs at once
func NewTracker(capacity int, minDistThreshold float64, maxNoMatch int, options ...TrackerOption) *Tracker {
	if capacity < 0 {
		capacity = 0
	}
	tracker := &Tracker{
		filters:          make([]*kalman_filter.Kalman2D, capacity),
		predicted:        make([]Point, capacity),
		predictedBoxes:   make([]Rectangle, capacity),
		noMatch:          make([]int, capacity),
		reserved:         make([]bool, capacity),
		idInUse:          make([]bool, capacity),
		minDistThreshold: minDistThreshold,
		maxNoMatch:       maxNoMatch,
		minPixels:        1,
		algorithm:        MatchingAlgorithmGreedy,
		smoothing:        true,
		dt:               1.0,
		observer:         nopObserver{},
		queue:            make(distanceHeap, 0, capacity),
		expired:          make([]Ref, 0, capacity),
		slots:            make([]Ref, 0, capacity),
	}
	for _, option := range options {
		option(tracker)
	}
	tracker.pool = NewPool(capacity, WithObserver(tracker.observer))
	tracker.active = tracker.pool.NewList(activeListName)
	tracker.fresh = tracker.pool.NewList(freshListName)
	return tracker
}

// Pool returns underlying node pool
func (tracker *Tracker) Pool() *Pool {
	return tracker.pool
}

// Frame returns number of processed frames
func (tracker *Tracker) Frame() uint64 {
	return tracker.frame
}

// Len returns number of active blobs, dead-marked included
func (tracker *Tracker) Len() int {
	return tracker.active.Len()
}

// Active iterates active blobs in list order
func (tracker *Tracker) Active() iter.Seq2[Ref, *Blob] {
	return tracker.active.All()
}

// Reset forgets every tracked blob
func (tracker *Tracker) Reset() {
	tracker.pool.Initialize()
	for i := range tracker.idInUse {
		tracker.idInUse[i] = false
		tracker.noMatch[i] = 0
		tracker.filters[i] = nil
	}
	tracker.frame = 0
}

// Match processes blobs measured on a new frame.
// Detections are not retained. When the pool is exhausted, extra detections are dropped for this frame.
func (tracker *Tracker) Match(detections []Detection) error {
	tracker.frame++

	// Blobs dead-marked on previous frame have been reported once; reclaim their slots
	tracker.expired = tracker.expired[:0]
	for ref, blob := range tracker.active.All() {
		if blob.IsDead {
			tracker.expired = append(tracker.expired, ref)
		}
	}
	for _, ref := range tracker.expired {
		if err := tracker.expire(ref); err != nil {
			return err
		}
	}

	for ref, blob := range tracker.active.All() {
		tracker.reserved[ref] = false
		tracker.predicted[ref] = blob.Centroid
		if tracker.smoothing && tracker.filters[ref] != nil {
			tracker.filters[ref].Predict()
			stateX, stateY := tracker.filters[ref].GetState()
			tracker.predicted[ref].X = stateX
			tracker.predicted[ref].Y = stateY
		}
		shift := tracker.predicted[ref]
		tracker.predictedBoxes[ref] = blob.Box.Translate(shift.X-blob.Centroid.X, shift.Y-blob.Centroid.Y)
	}

	var err error
	switch tracker.algorithm {
	case MatchingAlgorithmHungarian:
		err = tracker.matchHungarian(detections)
	case MatchingAlgorithmIoU:
		err = tracker.matchIoU(detections)
	default:
		err = tracker.matchGreedy(detections)
	}
	if err != nil {
		return errors.Wrapf(err, "frame %d", tracker.frame)
	}

	for ref, blob := range tracker.active.All() {
		if tracker.reserved[ref] {
			continue
		}
		tracker.noMatch[ref]++
		if tracker.noMatch[ref] > tracker.maxNoMatch {
			blob.IsDead = true
		}
	}
	if _, err := tracker.fresh.DrainInto(tracker.active); err != nil {
		return errors.Wrapf(err, "frame %d", tracker.frame)
	}
	return nil
}

func (tracker *Tracker) accepts(detection Detection) bool {
	return detection.PixelCount >= tracker.minPixels
}

// update re-associates active slot with a new measurement
func (tracker *Tracker) update(ref Ref, detection Detection) error {
	measurement := Blob{Centroid: detection.Centroid, Box: detection.Box, PixelCount: detection.PixelCount}
	if err := tracker.active.UpdateInPlace(ref, &measurement); err != nil {
		return err
	}
	node := &tracker.pool.nodes[ref]
	if tracker.smoothing && tracker.filters[ref] != nil {
		err := tracker.filters[ref].Update(detection.Centroid.X, detection.Centroid.Y)
		if err != nil {
			return errors.Wrapf(err, "Can't update centroid filter of blob %d", node.ID)
		}
		node.Centroid.X, node.Centroid.Y = tracker.filters[ref].GetState()
	}
	node.IsDead = false
	tracker.noMatch[ref] = 0
	tracker.reserved[ref] = true
	return nil
}

// spawn takes a free slot for an unmatched detection. Exhaustion is not an error: the detection is dropped
func (tracker *Tracker) spawn(detection Detection) {
	ref, err := tracker.pool.Allocate()
	if err != nil {
		tracker.observer.Observe(Event{Kind: EventDropped, Slot: NilRef, Reason: "no free slot", Count: tracker.active.Len()})
		return
	}
	node := &tracker.pool.nodes[ref]
	node.ID = tracker.takeID()
	node.Centroid = detection.Centroid
	node.Box = detection.Box
	node.PixelCount = detection.PixelCount
	node.IsDead = false
	tracker.noMatch[ref] = 0
	tracker.reserved[ref] = true
	tracker.predicted[ref] = detection.Centroid
	tracker.predictedBoxes[ref] = detection.Box
	tracker.filters[ref] = nil
	if tracker.smoothing {
		tracker.filters[ref] = newCentroidFilter(tracker.dt, detection.Centroid)
	}
	// ref comes from Allocate, it is always valid
	_ = tracker.fresh.PushBack(ref)
}

// expire unlinks a dead-marked blob, frees its id and returns the slot to the pool
func (tracker *Tracker) expire(ref Ref) error {
	id := tracker.pool.nodes[ref].ID
	if err := tracker.active.RemoveWithReason(ref, "expired"); err != nil {
		return err
	}
	if id >= 0 && id < len(tracker.idInUse) {
		tracker.idInUse[id] = false
	}
	tracker.filters[ref] = nil
	tracker.noMatch[ref] = 0
	return tracker.pool.Release(ref)
}

// takeID returns the smallest id not carried by an active blob.
// There are never more active blobs than slots, so an id is always found.
func (tracker *Tracker) takeID() int {
	for id, used := range tracker.idInUse {
		if !used {
			tracker.idInUse[id] = true
			return id
		}
	}
	return UnassignedID
}

func newCentroidFilter(dt float64, centroid Point) *kalman_filter.Kalman2D {
	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	return kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(centroid.X, centroid.Y))
}
