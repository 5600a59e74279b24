// Package blobs keeps track of contact blobs on a textile matrix sensor without growing memory.
//
// Every blob record lives in a slot of a fixed Pool. A slot is either on the pool's
// LIFO free list or linked into exactly one BlobList; ownership moves explicitly
// between them with Allocate/PushBack and Remove/PopFront/Release.
// Links are slot indices (Ref), NilRef terminates a list.
//
// Tracker is the frame-to-frame consumer of the pool: it associates blobs labeled
// on each frame with the active ones, allocates slots for new contacts and reclaims
// slots of contacts which disappeared.
package blobs
