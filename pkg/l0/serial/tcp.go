package serial

import (
	"net"
	"os"
	"time"

	"github.com/kpirover/rover.go/pkg/l0/comm"
)

// Conn adapts a net.Conn to comm.Device by bounding each read with a
// deadline, mirroring the serial port's read timeout.
type Conn struct {
	net.Conn
}

// Dial connects to an ECU reachable over TCP (the simulator, or a serial
// bridge) and disables Nagle so small command frames go out immediately.
func Dial(addr string) (comm.Device, error) {
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	if tc, ok := c.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return &Conn{Conn: c}, nil
}

// Wrap adapts an accepted connection (simulator side).
func Wrap(c net.Conn) comm.Device {
	if tc, ok := c.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return &Conn{Conn: c}
}

// Read reads available bytes, returning within ReadTimeout. Deadline
// expiry surfaces as a timeout error (os.IsTimeout reports true), which
// the transport treats as idle.
func (c *Conn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		return 0, err
	}
	n, err := c.Conn.Read(p)
	if err != nil && os.IsTimeout(err) && n > 0 {
		err = nil
	}
	return n, err
}
