package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/proto"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "read timeout" }
func (timeoutErr) Timeout() bool { return true }

// linkDevice is an in-memory device: injected bytes become readable,
// written bytes are captured.
type linkDevice struct {
	in        chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	lock    sync.Mutex
	written []byte
}

func newLinkDevice() *linkDevice {
	return &linkDevice{in: make(chan []byte, 64), closed: make(chan struct{})}
}

func (d *linkDevice) inject(data []byte) {
	d.in <- append([]byte(nil), data...)
}

func (d *linkDevice) Read(p []byte) (int, error) {
	select {
	case <-d.closed:
		return 0, io.EOF
	case data := <-d.in:
		return copy(p, data), nil
	case <-time.After(5 * time.Millisecond):
		return 0, timeoutErr{}
	}
}

func (d *linkDevice) Write(p []byte) (int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.written = append(d.written, p...)
	return len(p), nil
}

func (d *linkDevice) Close() error {
	d.closeOnce.Do(func() { close(d.closed) })
	return nil
}

func (d *linkDevice) writtenBytes() []byte {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]byte(nil), d.written...)
}

// captureSink records published messages by topic.
type captureSink struct {
	lock sync.Mutex
	msgs map[string][][]byte
}

func (s *captureSink) Publish(topic string, payload []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.msgs == nil {
		s.msgs = make(map[string][][]byte)
	}
	s.msgs[topic] = append(s.msgs[topic], append([]byte(nil), payload...))
}

func (s *captureSink) first(topic string) []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	if msgs := s.msgs[topic]; len(msgs) > 0 {
		return msgs[0]
	}
	return nil
}

func (s *captureSink) waitFor(t *testing.T, topic string) []byte {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msg := s.first(topic); msg != nil {
			return msg
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no message on %q", topic)
	return nil
}

func mustFrame(t *testing.T, payload []byte) []byte {
	frame, err := comm.EncodeFrame(payload)
	require.NoError(t, err)
	return frame
}

func TestPublisher(t *testing.T) {
	dev := newLinkDevice()
	link := comm.New(dev)
	link.Start()
	defer link.Close()

	sink := &captureSink{}
	pub := NewPublisher(link, "test", sink)
	require.Equal(t, "rover/test/", pub.Prefix)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pub.Run(ctx) }()

	dev.inject(mustFrame(t, proto.EncodeEncoderSet(proto.EncoderSet{1, 2, 3, 4})))
	var enc EncodersMsg
	require.NoError(t, json.Unmarshal(sink.waitFor(t, "rover/test/encoders"), &enc))
	require.Equal(t, []int32{1, 2, 3, 4}, enc.Ticks)

	dev.inject(mustFrame(t, proto.EncodeAPIVersion(2)))
	var ver VersionMsg
	require.NoError(t, json.Unmarshal(sink.waitFor(t, "rover/test/version"), &ver))
	require.Equal(t, uint8(2), ver.Version)

	dev.inject(mustFrame(t, proto.EncodeStatus(proto.CmdSetMotorSpeed, proto.StatusOK)))
	var st StatusMsg
	require.NoError(t, json.Unmarshal(sink.waitFor(t, "rover/test/status"), &st))
	require.Equal(t, "ok", st.Status)

	// each accepted inbound frame also appears on the tap topic
	var tap TapMsg
	require.NoError(t, json.Unmarshal(sink.waitFor(t, "rover/test/tap/rx"), &tap))
	require.Equal(t, "rx", tap.Dir)
	require.NotEmpty(t, tap.Frame)

	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestPoller(t *testing.T) {
	dev := newLinkDevice()
	link := comm.New(dev)
	link.Start()
	defer link.Close()

	p := NewPoller(link)
	p.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// let a few intervals elapse, then decode what went on the wire
	time.Sleep(100 * time.Millisecond)
	cancel()
	require.Equal(t, context.Canceled, <-done)

	seen := map[byte]bool{}
	scanner := comm.NewScanner(4096, func(payload, _ []byte) { seen[payload[0]] = true })
	scanner.Feed(dev.writtenBytes())
	require.True(t, seen[proto.CmdGetImu], "IMU query not sent")
	require.True(t, seen[proto.CmdGetAllEncoders], "encoders query not sent")
}
