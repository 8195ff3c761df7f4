package comm

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// Device is the duplex byte device carrying frames. Read must be bounded:
// implementations return a timeout error (os.IsTimeout) or (0, nil) when
// no bytes arrive within ~100ms, so the read loop can observe shutdown.
type Device interface {
	io.ReadWriteCloser
}

// TapDir identifies the direction of a tapped frame.
type TapDir int

// Tap directions.
const (
	TapRX TapDir = iota
	TapTX
)

func (d TapDir) String() string {
	if d == TapTX {
		return "tx"
	}
	return "rx"
}

// TapEvent reports a complete frame accepted from, or handed to, the
// device. Events are published non-blocking; a lagging observer loses
// events rather than stalling the I/O loops.
type TapEvent struct {
	Dir   TapDir
	Frame []byte
	Time  time.Time
}

const (
	readChunk = 4096
	idleYield = time.Millisecond
	tapDepth  = 64
)

// Transport runs decoupled read and write loops against a single Device
// and exposes non-blocking Send/Receive of logical payloads. Inbound
// payloads are delivered in frame-validation order; outbound frames are
// transmitted in Send order.
type Transport struct {
	dev      Device
	scanner  *Scanner
	inbound  *Queue[[]byte]
	outbound *Queue[[]byte]
	tap      chan TapEvent

	running  atomic.Bool
	started  bool
	wg       sync.WaitGroup
	lock     sync.Mutex
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Transport over an open device.
func New(dev Device) *Transport {
	t := &Transport{
		dev:      dev,
		inbound:  NewQueue[[]byte](),
		outbound: NewQueue[[]byte](),
		tap:      make(chan TapEvent, tapDepth),
		done:     make(chan struct{}),
	}
	t.scanner = NewScanner(DefaultRingCapacity, func(payload, frame []byte) {
		t.inbound.Push(payload)
		t.publish(TapRX, frame)
	})
	return t
}

// Start spawns the read and write loops. A Transport runs at most once;
// after Stop it cannot be restarted.
func (t *Transport) Start() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.started {
		return
	}
	t.started = true
	t.running.Store(true)
	t.wg.Add(2)
	go t.readLoop()
	go t.writeLoop()
	glog.V(4).Info("transport started")
}

// Stop signals both loops and blocks until they exit. The read loop
// observes the flag at its next device timeout (bounded by the configured
// read timeout); the write loop wakes from the closed outbound queue.
func (t *Transport) Stop() {
	if !t.running.CompareAndSwap(true, false) {
		return
	}
	t.outbound.Close()
	t.wg.Wait()
	t.inbound.Close()
	glog.V(4).Info("transport stopped")
}

// Close stops the loops and closes the device.
func (t *Transport) Close() error {
	t.Stop()
	return t.dev.Close()
}

// Send frames a payload and enqueues it for transmission. Empty payloads
// and payloads whose framed size exceeds the 1-byte length field are
// declined with an error; the transport itself is unaffected. Sending on
// a transport that is not started, or already stopped, fails with
// ErrNotRunning.
func (t *Transport) Send(payload []byte) error {
	frame, err := EncodeFrame(payload)
	if err != nil {
		return err
	}
	if !t.running.Load() {
		return ErrNotRunning
	}
	t.outbound.Push(frame)
	return nil
}

// Receive pops the next inbound payload without blocking.
func (t *Transport) Receive() ([]byte, bool) {
	return t.inbound.TryPop()
}

// Tap returns the frame observation channel.
func (t *Transport) Tap() <-chan TapEvent {
	return t.tap
}

// Done is closed when the read loop exits, either from Stop or from a
// dead device.
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

func (t *Transport) publish(dir TapDir, frame []byte) {
	ev := TapEvent{Dir: dir, Frame: frame, Time: time.Now()}
	select {
	case t.tap <- ev:
	default:
	}
}

func (t *Transport) readLoop() {
	defer t.wg.Done()
	defer t.doneOnce.Do(func() { close(t.done) })
	buf := make([]byte, readChunk)
	for t.running.Load() {
		n, err := t.dev.Read(buf)
		if n > 0 {
			t.scanner.Feed(buf[:n])
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			if t.running.Load() {
				glog.V(2).Infof("read loop: %v", err)
			}
			return
		}
		if n == 0 {
			time.Sleep(idleYield)
		}
	}
}

func (t *Transport) writeLoop() {
	defer t.wg.Done()
	for {
		frame, ok := t.outbound.Pop()
		if !ok {
			return
		}
		if err := t.writeFull(frame); err != nil {
			if t.running.Load() {
				glog.Warningf("write loop: %v", err)
			}
			return
		}
		t.publish(TapTX, frame)
	}
}

// writeFull retries partial writes until the frame is flushed.
func (t *Transport) writeFull(frame []byte) error {
	for written := 0; written < len(frame); {
		n, err := t.dev.Write(frame[written:])
		written += n
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			return err
		}
		if n == 0 {
			time.Sleep(idleYield)
		}
	}
	return nil
}
