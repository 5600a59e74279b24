// Package publish sends per-frame blob snapshots to an MQTT broker.
package publish

import (
	"iter"

	"github.com/eTextile/matrix-go/blobs"
	"github.com/google/uuid"
)

// BlobState is one active blob as published
type BlobState struct {
	ID     int     `json:"id"`
	Alive  bool    `json:"alive"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Pixels uint32  `json:"pixels"`
}

// Snapshot is the state of the tracker after one frame
type Snapshot struct {
	Session uuid.UUID   `json:"session"`
	Frame   uint64      `json:"frame"`
	Blobs   []BlobState `json:"blobs"`
}

// Fill replaces snapshot content with active blobs, reusing Blobs storage.
// Blobs is never nil afterwards, so an empty frame publishes an empty array
func (snapshot *Snapshot) Fill(frame uint64, active iter.Seq2[blobs.Ref, *blobs.Blob]) {
	snapshot.Frame = frame
	if snapshot.Blobs == nil {
		snapshot.Blobs = make([]BlobState, 0)
	}
	snapshot.Blobs = snapshot.Blobs[:0]
	for _, blob := range active {
		snapshot.Blobs = append(snapshot.Blobs, BlobState{
			ID:     blob.ID,
			Alive:  blob.Alive(),
			X:      blob.Centroid.X,
			Y:      blob.Centroid.Y,
			Z:      blob.Centroid.Z,
			W:      blob.Box.Width,
			H:      blob.Box.Height,
			Pixels: blob.PixelCount,
		})
	}
}
