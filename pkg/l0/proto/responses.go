package proto

import (
	"encoding/binary"
	"math"
)

// DecodeResponse parses an ECU reply payload, dispatching on the leading
// command id. Unknown ids and truncated payloads return an error; callers
// drop such payloads without tearing down the link.
func DecodeResponse(payload []byte) (Response, error) {
	if len(payload) == 0 {
		return nil, &ErrShortPayload{Len: 0, Want: 1}
	}
	id := payload[0]
	switch id {
	case CmdGetAPIVersion:
		if len(payload) < 2 {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 2}
		}
		return &APIVersion{Version: payload[1]}, nil
	case CmdSetMotorSpeed, CmdSetAllMotorsSpeed:
		if len(payload) < 2 {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 2}
		}
		return &Status{ID: id, Code: StatusCode(payload[1])}, nil
	case CmdGetEncoder:
		if len(payload) < 5 {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 5}
		}
		return &Encoder{Ticks: int32(binary.BigEndian.Uint32(payload[1:5]))}, nil
	case CmdGetAllEncoders:
		if len(payload) < 1+4*NumMotors {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 1 + 4*NumMotors}
		}
		var set EncoderSet
		for i := range set {
			set[i] = int32(binary.BigEndian.Uint32(payload[1+4*i:]))
		}
		return &set, nil
	case CmdGetImu:
		if len(payload) < 1+4*imuFloats {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 1 + 4*imuFloats}
		}
		var f [imuFloats]float32
		for i := range f {
			f[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[1+4*i:]))
		}
		s := &ImuSample{}
		copy(s.Accel[:], f[0:3])
		copy(s.Gyro[:], f[3:6])
		copy(s.Mag[:], f[6:9])
		copy(s.Quat[:], f[9:13])
		return s, nil
	}
	return nil, &ErrUnknownID{ID: id}
}

// EncodeAPIVersion builds the firmware reply to CmdGetAPIVersion.
func EncodeAPIVersion(version uint8) []byte {
	return []byte{CmdGetAPIVersion, version}
}

// EncodeStatus builds the firmware reply to a set-speed command.
func EncodeStatus(id byte, code StatusCode) []byte {
	return []byte{id, byte(code)}
}

// EncodeEncoder builds the firmware reply to CmdGetEncoder.
func EncodeEncoder(ticks int32) []byte {
	p := make([]byte, 5)
	p[0] = CmdGetEncoder
	binary.BigEndian.PutUint32(p[1:], uint32(ticks))
	return p
}

// EncodeEncoderSet builds the firmware reply to CmdGetAllEncoders.
func EncodeEncoderSet(set EncoderSet) []byte {
	p := make([]byte, 1+4*NumMotors)
	p[0] = CmdGetAllEncoders
	for i, ticks := range set {
		binary.BigEndian.PutUint32(p[1+4*i:], uint32(ticks))
	}
	return p
}

// EncodeImuSample builds the firmware reply to CmdGetImu.
func EncodeImuSample(s ImuSample) []byte {
	p := make([]byte, 1+4*imuFloats)
	p[0] = CmdGetImu
	var f [imuFloats]float32
	copy(f[0:3], s.Accel[:])
	copy(f[3:6], s.Gyro[:])
	copy(f[6:9], s.Mag[:])
	copy(f[9:13], s.Quat[:])
	for i, v := range f {
		binary.LittleEndian.PutUint32(p[1+4*i:], math.Float32bits(v))
	}
	return p
}
