// Package sh provides the ishell backed interactive console for talking
// to the ECU over a serial port or TCP.
package sh

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/proto"
	"github.com/kpirover/rover.go/pkg/l0/serial"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell *ishell.Shell

	link    *comm.Transport
	tapStop chan struct{}
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "

	// responseTimeout bounds waiting for an ECU reply.
	responseTimeout = time.Second
	// receivePoll is the cadence for polling the non-blocking receive.
	receivePoll = 5 * time.Millisecond
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	baudRate   int

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&VersionCmd,
		&SpeedCmd,
		&SpeedAllCmd,
		&EncCmd,
		&EncAllCmd,
		&ImuCmd,
		&TapCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.IntVar(&baudRate, "baud", serial.DefaultBaud, "Default serial baud rate.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).link == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Connect opens a device and starts a transport over it. target is a
// serial device path, or "tcp:HOST:PORT" for a networked ECU.
func (s *Shell) Connect(target string, baud int) error {
	var dev comm.Device
	var err error
	if addr, ok := strings.CutPrefix(target, "tcp:"); ok {
		dev, err = serial.Dial(addr)
	} else {
		dev, err = serial.Open(target, baud)
	}
	if err != nil {
		return err
	}
	s.Disconnect()
	s.link = comm.New(dev)
	s.link.Start()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	return nil
}

// Disconnect stops the current transport and closes its device.
func (s *Shell) Disconnect() {
	s.TapOff()
	if s.link != nil {
		s.link.Close()
		s.link = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// TapOn starts printing raw frames from the link.
func (s *Shell) TapOn() {
	if s.link == nil || s.tapStop != nil {
		return
	}
	stop := make(chan struct{})
	s.tapStop = stop
	tap := s.link.Tap()
	go func() {
		for {
			select {
			case <-stop:
				return
			case ev := <-tap:
				s.Shell.Printf("%s %s\n", strings.ToUpper(ev.Dir.String()), hex.EncodeToString(ev.Frame))
			}
		}
	}()
}

// TapOff stops printing raw frames.
func (s *Shell) TapOff() {
	if s.tapStop != nil {
		close(s.tapStop)
		s.tapStop = nil
	}
}

// Send transmits a request payload without waiting for a reply.
func (s *Shell) Send(payload []byte) error {
	return s.link.Send(payload)
}

// Request transmits a request payload and waits for the next decodable
// reply carrying the expected command id.
func (s *Shell) Request(payload []byte, expectID byte) (proto.Response, error) {
	if err := s.link.Send(payload); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(responseTimeout)
	for time.Now().Before(deadline) {
		reply, ok := s.link.Receive()
		if !ok {
			time.Sleep(receivePoll)
			continue
		}
		res, err := proto.DecodeResponse(reply)
		if err != nil {
			// corrupted or unrelated payload, keep waiting
			continue
		}
		if res.CommandID() != expectID {
			continue
		}
		return res, nil
	}
	return nil, fmt.Errorf("command timeout")
}

// Print formats a decoded response for the console.
func (s *Shell) Print(c *ishell.Context, res proto.Response) {
	if s.OutputJSON {
		out, err := json.Marshal(res)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	switch r := res.(type) {
	case *proto.APIVersion:
		c.Printf("API version %d\n", r.Version)
	case *proto.Status:
		c.Println(r.Code.String())
	case *proto.Encoder:
		c.Printf("%d ticks\n", r.Ticks)
	case *proto.EncoderSet:
		for i, ticks := range r {
			c.Printf("motor %d: %d ticks\n", i, ticks)
		}
	case *proto.ImuSample:
		c.Printf("accel %v gyro %v mag %v quat %v\n", r.Accel, r.Gyro, r.Mag, r.Quat)
	default:
		c.Printf("%v\n", res)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Disconnect()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}

func parseMotor(arg string) (uint8, error) {
	v, err := strconv.ParseUint(arg, 10, 8)
	if err != nil || v >= proto.NumMotors {
		return 0, fmt.Errorf("invalid MOTOR %q (0..%d)", arg, proto.NumMotors-1)
	}
	return uint8(v), nil
}

func parseRPM(arg string) (int32, error) {
	v, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid RPM %q", arg)
	}
	return int32(v), nil
}
