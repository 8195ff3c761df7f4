package comm

// EmitFunc receives each validated frame: the payload between the length
// byte and the CRC, and the complete frame bytes. Both slices are freshly
// allocated and may be retained.
type EmitFunc func(payload, frame []byte)

// Scanner accumulates raw stream bytes in a Ring and extracts validated
// frames. A leading byte that cannot begin a verifiable frame is dropped
// one byte at a time, which re-synchronizes the scanner on corrupted or
// mid-frame attach streams.
//
// Scanner is not safe for concurrent use; it belongs to the transport's
// read goroutine.
type Scanner struct {
	ring *Ring
	emit EmitFunc
}

// DefaultRingCapacity bounds the raw bytes retained while hunting for
// frames; older bytes are overwritten.
const DefaultRingCapacity = 64 * 1024

// NewScanner creates a Scanner with the given ring capacity.
func NewScanner(capacity int, emit EmitFunc) *Scanner {
	return &Scanner{ring: NewRing(capacity), emit: emit}
}

// Feed pushes raw bytes and extracts any complete frames.
func (s *Scanner) Feed(data []byte) {
	s.ring.Push(data)
	s.scan()
}

// Buffered returns the number of raw bytes awaiting framing.
func (s *Scanner) Buffered() int { return s.ring.Len() }

func (s *Scanner) scan() {
	for s.ring.Len() >= 2 {
		if s.ring.Peek(0) != FrameStart {
			s.ring.Pop(1)
			continue
		}
		length := int(s.ring.Peek(1))
		if length < frameOverhead {
			// cannot hold the length byte plus a CRC
			s.ring.Pop(1)
			continue
		}
		total := 1 + length
		if s.ring.Len() < total {
			// partial frame, wait for more bytes
			return
		}
		frame := make([]byte, total)
		for i := range frame {
			frame[i] = s.ring.Peek(i)
		}
		received := uint16(frame[total-2]) | uint16(frame[total-1])<<8
		if crc16(frame[1:total-2]) != received {
			// false start marker, slide a single byte to re-sync
			s.ring.Pop(1)
			continue
		}
		s.emit(frame[2:total-2], frame)
		s.ring.Pop(total)
	}
}
