package proto

// Command ids.
const (
	// CmdGetAPIVersion exchanges driver/firmware API versions.
	CmdGetAPIVersion = 0x01
	// CmdSetMotorSpeed sets a single motor speed.
	CmdSetMotorSpeed = 0x02
	// CmdSetAllMotorsSpeed sets all four motor speeds at once.
	CmdSetAllMotorsSpeed = 0x03
	// CmdGetEncoder queries a single encoder tick delta.
	CmdGetEncoder = 0x04
	// CmdGetAllEncoders queries all four encoder tick deltas.
	CmdGetAllEncoders = 0x05
	// CmdGetImu queries one IMU sample.
	CmdGetImu = 0x06
)

// NumMotors is the number of drive motors on the chassis.
const NumMotors = 4

// speedScale is the fixed-point factor applied to rpm values on the wire.
const speedScale = 100

// imuFloats is the number of float32 fields in an IMU sample:
// accel xyz, gyro xyz, mag xyz, quat wxyz.
const imuFloats = 13

// StatusCode is the ECU status byte in set-command responses.
type StatusCode byte

// Status codes.
const (
	StatusOK               StatusCode = 0
	StatusInvalidParameter StatusCode = 1
	StatusHardwareFailure  StatusCode = 2
	StatusTimeout          StatusCode = 3
	StatusNotImplemented   StatusCode = 4
)

func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidParameter:
		return "invalid parameter"
	case StatusHardwareFailure:
		return "hardware failure"
	case StatusTimeout:
		return "timeout"
	case StatusNotImplemented:
		return "not implemented"
	}
	return "unknown status"
}
