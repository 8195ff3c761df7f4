// Package sim emulates the four-motor chassis ECU over TCP so the ground
// software can be exercised without hardware.
package sim

import (
	"sync"
	"time"

	"github.com/kpirover/rover.go/pkg/l0/proto"
)

// DefaultTicksPerRev is the encoder resolution of the reference chassis.
const DefaultTicksPerRev = 1440

// ECU models the chassis controller state: four motor speed targets and
// their encoder tick accumulation, an API version, and a pluggable IMU
// sample source. Safe for concurrent use.
type ECU struct {
	APIVersion  uint8
	TicksPerRev float64
	// Imu supplies IMU samples; the default reports gravity on Z and an
	// identity orientation.
	Imu func() proto.ImuSample

	lock   sync.Mutex
	speeds [proto.NumMotors]int32 // rpm scaled by 100
	ticks  [proto.NumMotors]float64
	last   time.Time
	now    func() time.Time
}

// NewECU creates an ECU with defaults.
func NewECU() *ECU {
	e := &ECU{
		APIVersion:  1,
		TicksPerRev: DefaultTicksPerRev,
		Imu:         restingImu,
		now:         time.Now,
	}
	e.last = e.now()
	return e
}

func restingImu() proto.ImuSample {
	return proto.ImuSample{
		Accel: [3]float32{0, 0, 9.81},
		Quat:  [4]float32{1, 0, 0, 0},
	}
}

// advance integrates encoder ticks from the motor speeds since the last
// call. Caller holds the lock.
func (e *ECU) advance() {
	now := e.now()
	dt := now.Sub(e.last).Seconds()
	e.last = now
	for i, speed := range e.speeds {
		rpm := float64(speed) / 100
		e.ticks[i] += rpm / 60 * e.TicksPerRev * dt
	}
}

// SetSpeed sets one motor's target, rpm scaled by 100.
func (e *ECU) SetSpeed(motor uint8, speed int32) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.advance()
	e.speeds[motor] = speed
}

// SetAllSpeeds sets all motor targets, rpm scaled by 100.
func (e *ECU) SetAllSpeeds(speeds [proto.NumMotors]int32) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.advance()
	e.speeds = speeds
}

// Encoder returns one motor's accumulated ticks.
func (e *ECU) Encoder(motor uint8) int32 {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.advance()
	return int32(e.ticks[motor])
}

// Encoders returns all accumulated ticks.
func (e *ECU) Encoders() proto.EncoderSet {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.advance()
	var set proto.EncoderSet
	for i, t := range e.ticks {
		set[i] = int32(t)
	}
	return set
}

// HandleCommand applies a decoded request and returns the reply payload.
func (e *ECU) HandleCommand(cmd proto.Command) []byte {
	switch c := cmd.(type) {
	case *proto.GetAPIVersion:
		return proto.EncodeAPIVersion(e.APIVersion)
	case *proto.SetMotorSpeed:
		e.SetSpeed(c.Motor, c.Speed)
		return proto.EncodeStatus(proto.CmdSetMotorSpeed, proto.StatusOK)
	case *proto.SetAllMotorsSpeed:
		e.SetAllSpeeds(c.Speeds)
		return proto.EncodeStatus(proto.CmdSetAllMotorsSpeed, proto.StatusOK)
	case *proto.GetEncoder:
		return proto.EncodeEncoder(e.Encoder(c.Motor))
	case *proto.GetAllEncoders:
		return proto.EncodeEncoderSet(e.Encoders())
	case *proto.GetImu:
		return proto.EncodeImuSample(e.Imu())
	}
	return nil
}
