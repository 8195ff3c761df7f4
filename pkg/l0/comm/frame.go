package comm

// Wire format constants.
const (
	// FrameStart marks the beginning of a frame.
	FrameStart byte = 0xAA
	// frameOverhead is the length byte plus the 2-byte CRC. The length
	// byte counts itself, the payload and the CRC, so the smallest legal
	// value is frameOverhead (empty payload).
	frameOverhead = 3
	// MaxPayload is the largest payload the 1-byte length field can frame.
	MaxPayload = 0xFF - frameOverhead
)

// crc16 computes CRC16-Modbus (init 0xFFFF, reflected poly 0xA001) over
// data. On the wire it covers the length byte and the payload.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// EncodeFrame wraps a payload into a wire frame:
//
//	[0xAA][length][payload...][crc_lo][crc_hi]
//
// length = 1 (itself) + len(payload) + 2 (crc); the CRC covers
// [length, payload...].
func EncodeFrame(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	length := byte(len(payload) + frameOverhead)
	frame := make([]byte, 0, 1+int(length))
	frame = append(frame, FrameStart, length)
	frame = append(frame, payload...)
	crc := crc16(frame[1:]) // length byte + payload
	frame = append(frame, byte(crc), byte(crc>>8))
	return frame, nil
}
