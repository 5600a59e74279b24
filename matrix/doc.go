// Package matrix holds per-frame sensor data: raw and upsampled intensity grids,
// the activity bitmap, bilinear upsampling and baseline calibration.
//
// Nothing here allocates once constructed; every frame reuses the same buffers.
package matrix
