package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/proto"
)

// Command messages accepted under the link prefix, JSON encoded:
//
//	cmd/speed     SpeedCmdMsg
//	cmd/speedall  SpeedAllCmdMsg
//	cmd/version   (payload ignored)
//	cmd/encoders  (payload ignored)
//	cmd/imu       (payload ignored)
//
// Replies surface on the telemetry topics through the Publisher.

// SpeedCmdMsg sets one motor's speed.
type SpeedCmdMsg struct {
	Motor uint8 `json:"motor"`
	RPM   int32 `json:"rpm"`
}

// SpeedAllCmdMsg sets all motor speeds.
type SpeedAllCmdMsg struct {
	RPMs [proto.NumMotors]int32 `json:"rpms"`
}

// Commander subscribes to the link's command topics and forwards each
// message onto the wire. Malformed messages are dropped with a warning;
// the link never goes down over a bad command.
type Commander struct {
	Link          *comm.Transport
	MQ            *MQ
	Prefix        string
	DriverVersion uint8
}

// NewCommander creates a Commander for a link with the given identifier.
func NewCommander(link *comm.Transport, mq *MQ, id string) *Commander {
	return &Commander{Link: link, MQ: mq, Prefix: "rover/" + id + "/", DriverVersion: 1}
}

// Name implements Named.
func (c *Commander) Name() string { return "commander" }

// Run implements Runnable.
func (c *Commander) Run(ctx context.Context) error {
	sub := c.MQ.Sub(c.Prefix+"cmd/#", c.handle)
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (c *Commander) handle(topic string, payload []byte) {
	action := strings.TrimPrefix(topic, c.Prefix+"cmd/")
	if action == topic {
		return
	}
	wire, err := c.encode(action, payload)
	if err != nil {
		glog.Warningf("cmd %s: %v", action, err)
		return
	}
	if err = c.Link.Send(wire); err != nil {
		glog.Warningf("cmd %s: %v", action, err)
	}
}

func (c *Commander) encode(action string, payload []byte) ([]byte, error) {
	switch action {
	case "speed":
		var msg SpeedCmdMsg
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, err
		}
		return proto.EncodeSetMotorSpeed(msg.Motor, msg.RPM)
	case "speedall":
		var msg SpeedAllCmdMsg
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, err
		}
		return proto.EncodeSetAllMotorsSpeed(msg.RPMs), nil
	case "version":
		return proto.EncodeGetAPIVersion(c.DriverVersion), nil
	case "encoders":
		return proto.EncodeGetAllEncoders(), nil
	case "imu":
		return proto.EncodeGetImu(), nil
	}
	return nil, fmt.Errorf("unknown command %q", action)
}
