package sh

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/kpirover/rover.go/pkg/l0/proto"
)

// ConnectCmd opens a link to the ECU.
var ConnectCmd = ishell.Cmd{
	Name: "connect",
	Help: "connect DEVICE [BAUD] | connect tcp HOST:PORT",
	Func: func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("DEVICE expected"))
			return
		}
		target := c.Args[0]
		rest := c.Args[1:]
		if target == "tcp" {
			if len(rest) < 1 {
				c.Err(fmt.Errorf("ADDR expected"))
				return
			}
			target, rest = "tcp:"+rest[0], rest[1:]
		}
		baud := baudRate
		if len(rest) > 0 {
			v, err := strconv.Atoi(rest[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid BAUD %q", rest[0]))
				return
			}
			baud = v
		}
		if err := ShellFrom(c).Connect(target, baud); err != nil {
			c.Err(err)
		}
	},
}

// DisconnectCmd closes the current link.
var DisconnectCmd = ishell.Cmd{
	Name: "disconnect",
	Help: "close the current connection",
	Func: MustBeConnected(func(c *ishell.Context) {
		ShellFrom(c).Disconnect()
	}),
}

// VersionCmd queries the ECU API version.
var VersionCmd = ishell.Cmd{
	Name: "version",
	Help: "version [DRIVER_VERSION] - query ECU API version",
	Func: MustBeConnected(func(c *ishell.Context) {
		s := ShellFrom(c)
		var driver uint8 = 1
		if len(c.Args) > 0 {
			v, err := strconv.ParseUint(c.Args[0], 10, 8)
			if err != nil {
				c.Err(fmt.Errorf("invalid DRIVER_VERSION %q", c.Args[0]))
				return
			}
			driver = uint8(v)
		}
		res, err := s.Request(proto.EncodeGetAPIVersion(driver), proto.CmdGetAPIVersion)
		if err != nil {
			c.Err(err)
			return
		}
		s.Print(c, res)
	}),
}

// SpeedCmd sets one motor's speed.
var SpeedCmd = ishell.Cmd{
	Name: "speed",
	Help: "speed MOTOR RPM - set one motor speed",
	Func: MustBeConnected(func(c *ishell.Context) {
		s := ShellFrom(c)
		if len(c.Args) < 2 {
			c.Err(fmt.Errorf("MOTOR and RPM expected"))
			return
		}
		motor, err := parseMotor(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		rpm, err := parseRPM(c.Args[1])
		if err != nil {
			c.Err(err)
			return
		}
		payload, err := proto.EncodeSetMotorSpeed(motor, rpm)
		if err != nil {
			c.Err(err)
			return
		}
		res, err := s.Request(payload, proto.CmdSetMotorSpeed)
		if err != nil {
			c.Err(err)
			return
		}
		s.Print(c, res)
	}),
}

// SpeedAllCmd sets all four motor speeds.
var SpeedAllCmd = ishell.Cmd{
	Name: "speedall",
	Help: "speedall RPM0 RPM1 RPM2 RPM3 - set all motor speeds",
	Func: MustBeConnected(func(c *ishell.Context) {
		s := ShellFrom(c)
		if len(c.Args) < proto.NumMotors {
			c.Err(fmt.Errorf("%d RPM values expected", proto.NumMotors))
			return
		}
		var speeds [proto.NumMotors]int32
		for i := range speeds {
			rpm, err := parseRPM(c.Args[i])
			if err != nil {
				c.Err(err)
				return
			}
			speeds[i] = rpm
		}
		res, err := s.Request(proto.EncodeSetAllMotorsSpeed(speeds), proto.CmdSetAllMotorsSpeed)
		if err != nil {
			c.Err(err)
			return
		}
		s.Print(c, res)
	}),
}

// EncCmd reads one motor's encoder.
var EncCmd = ishell.Cmd{
	Name: "enc",
	Help: "enc MOTOR - read one encoder",
	Func: MustBeConnected(func(c *ishell.Context) {
		s := ShellFrom(c)
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("MOTOR expected"))
			return
		}
		motor, err := parseMotor(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		payload, err := proto.EncodeGetEncoder(motor)
		if err != nil {
			c.Err(err)
			return
		}
		res, err := s.Request(payload, proto.CmdGetEncoder)
		if err != nil {
			c.Err(err)
			return
		}
		s.Print(c, res)
	}),
}

// EncAllCmd reads all encoders.
var EncAllCmd = ishell.Cmd{
	Name: "encall",
	Help: "read all encoders",
	Func: MustBeConnected(func(c *ishell.Context) {
		s := ShellFrom(c)
		res, err := s.Request(proto.EncodeGetAllEncoders(), proto.CmdGetAllEncoders)
		if err != nil {
			c.Err(err)
			return
		}
		s.Print(c, res)
	}),
}

// ImuCmd reads the IMU sample.
var ImuCmd = ishell.Cmd{
	Name: "imu",
	Help: "read the IMU sample",
	Func: MustBeConnected(func(c *ishell.Context) {
		s := ShellFrom(c)
		res, err := s.Request(proto.EncodeGetImu(), proto.CmdGetImu)
		if err != nil {
			c.Err(err)
			return
		}
		s.Print(c, res)
	}),
}

// TapCmd toggles raw frame tracing.
var TapCmd = ishell.Cmd{
	Name: "tap",
	Help: "tap on|off - trace raw frames",
	Func: MustBeConnected(func(c *ishell.Context) {
		s := ShellFrom(c)
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("on|off expected"))
			return
		}
		switch c.Args[0] {
		case "on":
			s.TapOn()
		case "off":
			s.TapOff()
		default:
			c.Err(fmt.Errorf("on|off expected"))
		}
	}),
}
