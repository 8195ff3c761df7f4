package proto

// ImuSample is one inertial measurement: 13 float32 fields in wire order.
// Axis remapping, if any, is the consumer's concern.
type ImuSample struct {
	Accel [3]float32 `json:"accel"` // m/s^2, xyz
	Gyro  [3]float32 `json:"gyro"`  // rad/s, xyz
	Mag   [3]float32 `json:"mag"`   // uT, xyz
	Quat  [4]float32 `json:"quat"`  // orientation, wxyz
}

// EncoderSet holds the tick deltas of all four motors.
type EncoderSet [NumMotors]int32

// Response is a decoded ECU reply. Concrete types: *APIVersion, *Status,
// *Encoder, *EncoderSet, *ImuSample.
type Response interface {
	// CommandID returns the command id the response answers.
	CommandID() byte
}

// APIVersion answers CmdGetAPIVersion.
type APIVersion struct {
	Version uint8 `json:"version"`
}

// CommandID implements Response.
func (*APIVersion) CommandID() byte { return CmdGetAPIVersion }

// Status answers the set-speed commands.
type Status struct {
	ID   byte       `json:"id"`
	Code StatusCode `json:"code"`
}

// CommandID implements Response.
func (s *Status) CommandID() byte { return s.ID }

// Encoder answers CmdGetEncoder.
type Encoder struct {
	Ticks int32 `json:"ticks"`
}

// CommandID implements Response.
func (*Encoder) CommandID() byte { return CmdGetEncoder }

// CommandID implements Response.
func (*EncoderSet) CommandID() byte { return CmdGetAllEncoders }

// CommandID implements Response.
func (*ImuSample) CommandID() byte { return CmdGetImu }

// Command is a decoded ECU-bound request, used by the simulator and by
// firmware-side tooling. Concrete types: *GetAPIVersion, *SetMotorSpeed,
// *SetAllMotorsSpeed, *GetEncoder, *GetAllEncoders, *GetImu.
type Command interface {
	// CommandID returns the request command id.
	CommandID() byte
}

// GetAPIVersion carries the driver's own version.
type GetAPIVersion struct {
	DriverVersion uint8
}

// CommandID implements Command.
func (*GetAPIVersion) CommandID() byte { return CmdGetAPIVersion }

// SetMotorSpeed sets one motor. Speed is rpm scaled by 100, as on the wire.
type SetMotorSpeed struct {
	Motor uint8
	Speed int32
}

// CommandID implements Command.
func (*SetMotorSpeed) CommandID() byte { return CmdSetMotorSpeed }

// SetAllMotorsSpeed sets all motors. Speeds are rpm scaled by 100.
type SetAllMotorsSpeed struct {
	Speeds [NumMotors]int32
}

// CommandID implements Command.
func (*SetAllMotorsSpeed) CommandID() byte { return CmdSetAllMotorsSpeed }

// GetEncoder queries one encoder.
type GetEncoder struct {
	Motor uint8
}

// CommandID implements Command.
func (*GetEncoder) CommandID() byte { return CmdGetEncoder }

// GetAllEncoders queries all encoders.
type GetAllEncoders struct{}

// CommandID implements Command.
func (*GetAllEncoders) CommandID() byte { return CmdGetAllEncoders }

// GetImu queries one IMU sample.
type GetImu struct{}

// CommandID implements Command.
func (*GetImu) CommandID() byte { return CmdGetImu }
