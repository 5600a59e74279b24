// Package wire implements the serial protocol spoken with the host visualizer:
// OSC messages, one per SLIP frame.
//
// Device to host:
//
//	/r <blob>                          raw frame, one byte per cell
//	/i <blob>                          upsampled frame
//	/b <id> <alive> <x> <y> <z> <pix>  one message per active blob (int32 args)
//
// Host to device:
//
//	/r, /i, /b                         request of the above
//	/c <cycles>                        start baseline calibration
//	/t <threshold>                     set activity threshold
package wire
