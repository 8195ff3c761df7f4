// Package serial opens the byte devices the L0 link runs over: a local
// serial port, or a TCP connection when the ECU sits behind a network
// bridge. Both satisfy comm.Device with reads bounded by ReadTimeout.
package serial

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/kpirover/rover.go/pkg/l0/comm"
)

// ReadTimeout bounds every device read so the transport's read loop can
// observe shutdown.
const ReadTimeout = 100 * time.Millisecond

// standard POSIX rates supported by the ECU UART
var baudRates = map[int]struct{}{
	9600:    {},
	19200:   {},
	38400:   {},
	57600:   {},
	115200:  {},
	230400:  {},
	460800:  {},
	500000:  {},
	921600:  {},
	1000000: {},
}

// DefaultBaud is the ECU's default line rate.
const DefaultBaud = 115200

// Open opens and configures a serial port: 8 data bits, no parity, one
// stop bit, no flow control, raw mode, 100ms read timeout. Open or
// configure failure fails the whole call; there is no degraded state.
func Open(name string, baud int) (comm.Device, error) {
	if _, ok := baudRates[baud]; !ok {
		return nil, fmt.Errorf("unsupported baud rate %d", baud)
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err = port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("configure %s: %w", name, err)
	}
	return port, nil
}
