package telemetry

import (
	"context"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/proto"
)

// Sink receives published telemetry messages. *MQ is a Sink; so is the
// websocket feed server.
type Sink interface {
	Publish(topic string, payload []byte)
}

// Publish implements Sink.
func (q *MQ) Publish(topic string, payload []byte) {
	q.Pub(topic, payload)
}

// LinkID returns the default link identifier used in telemetry topics.
func LinkID() (string, error) {
	return machineid.ID()
}

// drainInterval is the cadence for draining the transport's inbound
// queue, matching the original ground station's 10ms poll timer.
const drainInterval = 10 * time.Millisecond

// Publisher drains a transport's inbound payloads and tap events, decodes
// responses, and publishes them as JSON to the configured sinks under
// rover/<id>/. It is the sole consumer of the transport's Receive side.
type Publisher struct {
	Link   *comm.Transport
	Prefix string
	Sinks  []Sink
}

// NewPublisher creates a Publisher for a link with the given identifier.
func NewPublisher(link *comm.Transport, id string, sinks ...Sink) *Publisher {
	return &Publisher{Link: link, Prefix: "rover/" + id + "/", Sinks: sinks}
}

// Name implements Named.
func (p *Publisher) Name() string { return "telemetry" }

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	tap := p.Link.Tap()
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-tap:
			p.publish("tap/"+ev.Dir.String(), marshal(newTapMsg(ev)))
		case <-ticker.C:
			for {
				payload, ok := p.Link.Receive()
				if !ok {
					break
				}
				p.handle(payload)
			}
		}
	}
}

func (p *Publisher) handle(payload []byte) {
	res, err := proto.DecodeResponse(payload)
	if err != nil {
		glog.V(2).Infof("drop response: %v", err)
		return
	}
	now := time.Now()
	switch r := res.(type) {
	case *proto.APIVersion:
		p.publish("version", marshal(VersionMsg{Time: now, Version: r.Version}))
	case *proto.Status:
		p.publish("status", marshal(StatusMsg{Time: now, Command: r.ID, Code: byte(r.Code), Status: r.Code.String()}))
	case *proto.Encoder:
		p.publish("encoders", marshal(EncodersMsg{Time: now, Ticks: []int32{r.Ticks}}))
	case *proto.EncoderSet:
		p.publish("encoders", marshal(EncodersMsg{Time: now, Ticks: r[:]}))
	case *proto.ImuSample:
		p.publish("imu", marshal(ImuMsg{Time: now, ImuSample: *r}))
	}
}

func (p *Publisher) publish(topic string, payload []byte) {
	for _, sink := range p.Sinks {
		sink.Publish(p.Prefix+topic, payload)
	}
}
