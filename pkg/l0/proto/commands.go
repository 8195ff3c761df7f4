package proto

import (
	"encoding/binary"
)

// EncodeGetAPIVersion builds the version exchange request:
//
//	[0x01][driver_version]
func EncodeGetAPIVersion(driverVersion uint8) []byte {
	return []byte{CmdGetAPIVersion, driverVersion}
}

// EncodeSetMotorSpeed builds a single-motor speed request:
//
//	[0x02][motor_id][rpm*100:i32be]
func EncodeSetMotorSpeed(motor uint8, rpm int32) ([]byte, error) {
	if motor >= NumMotors {
		return nil, ErrInvalidMotor
	}
	p := make([]byte, 6)
	p[0], p[1] = CmdSetMotorSpeed, motor
	binary.BigEndian.PutUint32(p[2:], uint32(rpm*speedScale))
	return p, nil
}

// EncodeSetAllMotorsSpeed builds the all-motors speed request:
//
//	[0x03][rpm0*100:i32be][rpm1*100:i32be][rpm2*100:i32be][rpm3*100:i32be]
func EncodeSetAllMotorsSpeed(rpms [NumMotors]int32) []byte {
	p := make([]byte, 1+4*NumMotors)
	p[0] = CmdSetAllMotorsSpeed
	for i, rpm := range rpms {
		binary.BigEndian.PutUint32(p[1+4*i:], uint32(rpm*speedScale))
	}
	return p
}

// EncodeGetEncoder builds a single-encoder query:
//
//	[0x04][motor_id]
func EncodeGetEncoder(motor uint8) ([]byte, error) {
	if motor >= NumMotors {
		return nil, ErrInvalidMotor
	}
	return []byte{CmdGetEncoder, motor}, nil
}

// EncodeGetAllEncoders builds the all-encoders query: [0x05].
func EncodeGetAllEncoders() []byte {
	return []byte{CmdGetAllEncoders}
}

// EncodeGetImu builds the IMU sample query: [0x06].
func EncodeGetImu() []byte {
	return []byte{CmdGetImu}
}

// DecodeCommand parses an ECU-bound request payload. It is the firmware
// side of the codec, used by the simulator.
func DecodeCommand(payload []byte) (Command, error) {
	if len(payload) == 0 {
		return nil, &ErrShortPayload{Len: 0, Want: 1}
	}
	id := payload[0]
	switch id {
	case CmdGetAPIVersion:
		if len(payload) < 2 {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 2}
		}
		return &GetAPIVersion{DriverVersion: payload[1]}, nil
	case CmdSetMotorSpeed:
		if len(payload) < 6 {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 6}
		}
		if payload[1] >= NumMotors {
			return nil, ErrInvalidMotor
		}
		return &SetMotorSpeed{
			Motor: payload[1],
			Speed: int32(binary.BigEndian.Uint32(payload[2:6])),
		}, nil
	case CmdSetAllMotorsSpeed:
		if len(payload) < 1+4*NumMotors {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 1 + 4*NumMotors}
		}
		var cmd SetAllMotorsSpeed
		for i := range cmd.Speeds {
			cmd.Speeds[i] = int32(binary.BigEndian.Uint32(payload[1+4*i:]))
		}
		return &cmd, nil
	case CmdGetEncoder:
		if len(payload) < 2 {
			return nil, &ErrShortPayload{ID: id, Len: len(payload), Want: 2}
		}
		if payload[1] >= NumMotors {
			return nil, ErrInvalidMotor
		}
		return &GetEncoder{Motor: payload[1]}, nil
	case CmdGetAllEncoders:
		return &GetAllEncoders{}, nil
	case CmdGetImu:
		return &GetImu{}, nil
	}
	return nil, &ErrUnknownID{ID: id}
}
