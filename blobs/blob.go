package blobs

// Ref is an index of a slot in the node pool.
// It stands in for a pointer to the blob record stored in that slot.
type Ref int

// NilRef is the null reference: end of a list or "no slot".
const NilRef Ref = -1

// UnassignedID is the id of a blob which is reset or not yet associated.
const UnassignedID = -1

// Blob is a fixed-layout record representing one tracked contact region.
// Blobs live only inside a Pool; lists link them by index.
type Blob struct {
	// Identifier. UnassignedID means "reset"
	ID int
	// Position (X, Y) and derived magnitude (Z)
	Centroid Point
	// Bounding box of contributing cells, its depth is Centroid.Z
	Box Rectangle
	// Number of cells contributing to this blob
	PixelCount uint32
	// Blob is logically removed but still linked into the active list
	IsDead bool

	// next slot in whichever list holds this slot
	next Ref
}

// Reset puts blob's fields back to their initial values.
// The list link is not touched.
func (blob *Blob) Reset() {
	blob.ID = UnassignedID
	blob.Centroid = Point{}
	blob.Box = Rectangle{}
	blob.PixelCount = 0
	blob.IsDead = false
}

// IsReset reports whether every field holds its initial value.
func (blob *Blob) IsReset() bool {
	return blob.ID == UnassignedID && blob.Centroid == Point{} && blob.Box == Rectangle{} && blob.PixelCount == 0 && !blob.IsDead
}

// Alive is the wire-level flag for IsDead
func (blob *Blob) Alive() bool {
	return !blob.IsDead
}

// Detection is one connected region measured on the current frame.
// It is produced by the labeling stage and consumed by Tracker.Match.
type Detection struct {
	Centroid   Point
	Box        Rectangle
	PixelCount uint32
}
