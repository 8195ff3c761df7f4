package telemetry

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/proto"
)

// Telemetry messages are published as JSON. Topics are relative to the
// link prefix "rover/<id>/":
//
//	version   VersionMsg
//	status    StatusMsg
//	encoders  EncodersMsg
//	imu       ImuMsg
//	tap/tx    TapMsg
//	tap/rx    TapMsg

// VersionMsg reports the ECU API version.
type VersionMsg struct {
	Time    time.Time `json:"time"`
	Version uint8     `json:"version"`
}

// StatusMsg reports an ECU status reply to a set command.
type StatusMsg struct {
	Time    time.Time `json:"time"`
	Command byte      `json:"command"`
	Code    byte      `json:"code"`
	Status  string    `json:"status"`
}

// EncodersMsg reports encoder tick deltas.
type EncodersMsg struct {
	Time  time.Time `json:"time"`
	Ticks []int32   `json:"ticks"`
}

// ImuMsg reports one IMU sample.
type ImuMsg struct {
	Time time.Time `json:"time"`
	proto.ImuSample
}

// TapMsg reports one raw frame seen on the link, hex encoded.
type TapMsg struct {
	Time  time.Time `json:"time"`
	Dir   string    `json:"dir"`
	Frame string    `json:"frame"`
}

func newTapMsg(ev comm.TapEvent) TapMsg {
	return TapMsg{
		Time:  ev.Time,
		Dir:   ev.Dir.String(),
		Frame: hex.EncodeToString(ev.Frame),
	}
}

func marshal(v interface{}) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		// all message types marshal cleanly; a failure is a programming error
		panic(err)
	}
	return out
}
