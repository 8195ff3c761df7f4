// Package proto encodes and decodes ECU command payloads.
package proto

// Payloads are the bytes carried inside L0 frames:
//
//	[command_id:1][command_specific_fields]
//
// Multi-byte integers are big-endian; motor speeds are fixed-point
// rpm scaled by 100; IMU samples are 13 little-endian IEEE-754 floats.
// This package is pure encode/decode: no I/O, no shared state.
//
// The link carries no correlation IDs, so a response is matched to its
// request by command id and arrival order only. Callers must keep at most
// one request of a given command id outstanding at a time.
