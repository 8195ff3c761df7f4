// Package comm provides L0 link support.
package comm

// The L0 link carries framed command/response payloads between the L1
// ground-side software and the L0 ECU firmware over a duplex byte device
// (serial port, or TCP when the ECU runs behind a network bridge).
//
// Frames are marker-delimited, length-prefixed and CRC16-Modbus terminated:
//
//	[0xAA][length][payload...][crc_lo][crc_hi]
//
// where length counts itself, the payload and both CRC bytes (so the
// smallest legal value is 3), and the CRC covers the length byte plus the
// payload. The link self-synchronizes on a corrupted stream by sliding a
// single byte at a time until a verifiable frame is found.
//
// This layer moves opaque payloads only; command semantics live in the
// proto package.
//
// Producer: L1 ground software
// Consumer: L0 ECU firmware
