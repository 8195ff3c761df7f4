package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kpirover/rover.go/pkg/l0/proto"
)

// fakeClock drives the ECU's encoder integration deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestECU() (*ECU, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	e := NewECU()
	e.now = clk.now
	e.last = clk.t
	return e, clk
}

func TestECUEncoderIntegration(t *testing.T) {
	e, clk := newTestECU()

	// 60 rpm is one revolution per second
	e.SetSpeed(0, 60*100)
	clk.advance(time.Second)
	require.Equal(t, int32(DefaultTicksPerRev), e.Encoder(0))
	require.Equal(t, int32(0), e.Encoder(1))

	// reversing at double speed for half a second winds it back to zero
	e.SetSpeed(0, -120*100)
	clk.advance(500 * time.Millisecond)
	require.Equal(t, int32(0), e.Encoder(0))
}

func TestECUSetAllSpeeds(t *testing.T) {
	e, clk := newTestECU()
	e.SetAllSpeeds([proto.NumMotors]int32{60 * 100, 30 * 100, 0, -60 * 100})
	clk.advance(2 * time.Second)
	set := e.Encoders()
	require.Equal(t, proto.EncoderSet{
		2 * DefaultTicksPerRev,
		DefaultTicksPerRev,
		0,
		-2 * DefaultTicksPerRev,
	}, set)
}

func TestECUSpeedChangeIntegratesPrior(t *testing.T) {
	e, clk := newTestECU()
	e.SetSpeed(2, 60*100)
	clk.advance(time.Second)
	// the change must first account for the elapsed second at 60 rpm
	e.SetSpeed(2, 0)
	clk.advance(time.Hour)
	require.Equal(t, int32(DefaultTicksPerRev), e.Encoder(2))
}

func TestECUHandleCommand(t *testing.T) {
	e, clk := newTestECU()
	e.APIVersion = 3

	reply := e.HandleCommand(&proto.GetAPIVersion{DriverVersion: 1})
	res, err := proto.DecodeResponse(reply)
	require.NoError(t, err)
	require.Equal(t, &proto.APIVersion{Version: 3}, res)

	reply = e.HandleCommand(&proto.SetMotorSpeed{Motor: 1, Speed: 60 * 100})
	res, err = proto.DecodeResponse(reply)
	require.NoError(t, err)
	require.Equal(t, &proto.Status{ID: proto.CmdSetMotorSpeed, Code: proto.StatusOK}, res)

	clk.advance(time.Second)
	reply = e.HandleCommand(&proto.GetEncoder{Motor: 1})
	res, err = proto.DecodeResponse(reply)
	require.NoError(t, err)
	require.Equal(t, &proto.Encoder{Ticks: DefaultTicksPerRev}, res)

	reply = e.HandleCommand(&proto.SetAllMotorsSpeed{})
	res, err = proto.DecodeResponse(reply)
	require.NoError(t, err)
	require.Equal(t, &proto.Status{ID: proto.CmdSetAllMotorsSpeed, Code: proto.StatusOK}, res)

	reply = e.HandleCommand(&proto.GetAllEncoders{})
	res, err = proto.DecodeResponse(reply)
	require.NoError(t, err)
	require.Equal(t, &proto.EncoderSet{0, DefaultTicksPerRev, 0, 0}, res)

	reply = e.HandleCommand(&proto.GetImu{})
	res, err = proto.DecodeResponse(reply)
	require.NoError(t, err)
	sample := res.(*proto.ImuSample)
	require.InDelta(t, 9.81, sample.Accel[2], 1e-6)
	require.Equal(t, [4]float32{1, 0, 0, 0}, sample.Quat)
}
