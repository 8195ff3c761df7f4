package telemetry

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/proto"
)

// Poller periodically issues telemetry queries on the link. The wire
// protocol has no correlation IDs, so the poller keeps at most one
// outstanding query per command id by spacing requests with its interval;
// the interval must comfortably exceed the ECU's round trip.
type Poller struct {
	Link     *comm.Transport
	Interval time.Duration
	Imu      bool
	Encoders bool
}

// DefaultPollInterval matches the original dashboard's refresh cadence.
const DefaultPollInterval = 200 * time.Millisecond

// NewPoller creates a Poller querying both IMU and encoders.
func NewPoller(link *comm.Transport) *Poller {
	return &Poller{Link: link, Interval: DefaultPollInterval, Imu: true, Encoders: true}
}

// Name implements Named.
func (p *Poller) Name() string { return "poller" }

// Run implements Runnable.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.Imu {
				p.send(proto.EncodeGetImu())
			}
			if p.Encoders {
				p.send(proto.EncodeGetAllEncoders())
			}
		}
	}
}

func (p *Poller) send(payload []byte) {
	if err := p.Link.Send(payload); err != nil {
		glog.Warningf("poll send: %v", err)
	}
}
