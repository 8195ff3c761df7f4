package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeGetAPIVersion(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x07}, EncodeGetAPIVersion(7))
}

func TestEncodeSetMotorSpeed(t *testing.T) {
	// 100 rpm scales to 10000 = 0x2710 on the wire
	p, err := EncodeSetMotorSpeed(2, 100)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x02, 0x00, 0x00, 0x27, 0x10}, p)

	p, err = EncodeSetMotorSpeed(0, -1)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x00, 0xFF, 0xFF, 0xFF, 0x9C}, p)

	_, err = EncodeSetMotorSpeed(NumMotors, 100)
	require.Equal(t, ErrInvalidMotor, err)
}

func TestEncodeSetAllMotorsSpeed(t *testing.T) {
	p := EncodeSetAllMotorsSpeed([NumMotors]int32{})
	require.Len(t, p, 17)
	require.Equal(t, byte(CmdSetAllMotorsSpeed), p[0])
	for _, b := range p[1:] {
		require.Equal(t, byte(0), b)
	}

	p = EncodeSetAllMotorsSpeed([NumMotors]int32{1, 2, 3, 4})
	require.Equal(t, []byte{
		0x03,
		0x00, 0x00, 0x00, 0x64,
		0x00, 0x00, 0x00, 0xC8,
		0x00, 0x00, 0x01, 0x2C,
		0x00, 0x00, 0x01, 0x90,
	}, p)
}

func TestEncodeQueries(t *testing.T) {
	p, err := EncodeGetEncoder(3)
	require.NoError(t, err)
	require.Equal(t, []byte{0x04, 0x03}, p)

	_, err = EncodeGetEncoder(4)
	require.Equal(t, ErrInvalidMotor, err)

	require.Equal(t, []byte{0x05}, EncodeGetAllEncoders())
	require.Equal(t, []byte{0x06}, EncodeGetImu())
}

func TestDecodeCommand(t *testing.T) {
	cmd, err := DecodeCommand([]byte{0x01, 0x02})
	require.NoError(t, err)
	require.Equal(t, &GetAPIVersion{DriverVersion: 2}, cmd)

	cmd, err = DecodeCommand([]byte{0x02, 0x01, 0x00, 0x00, 0x27, 0x10})
	require.NoError(t, err)
	require.Equal(t, &SetMotorSpeed{Motor: 1, Speed: 10000}, cmd)

	cmd, err = DecodeCommand(EncodeSetAllMotorsSpeed([NumMotors]int32{10, -10, 0, 5}))
	require.NoError(t, err)
	require.Equal(t, &SetAllMotorsSpeed{Speeds: [NumMotors]int32{1000, -1000, 0, 500}}, cmd)

	cmd, err = DecodeCommand([]byte{0x04, 0x00})
	require.NoError(t, err)
	require.Equal(t, &GetEncoder{Motor: 0}, cmd)

	cmd, err = DecodeCommand([]byte{0x05})
	require.NoError(t, err)
	require.IsType(t, &GetAllEncoders{}, cmd)

	cmd, err = DecodeCommand([]byte{0x06})
	require.NoError(t, err)
	require.IsType(t, &GetImu{}, cmd)
}

func TestDecodeCommandErrors(t *testing.T) {
	_, err := DecodeCommand(nil)
	require.Error(t, err)

	_, err = DecodeCommand([]byte{0x99})
	require.IsType(t, &ErrUnknownID{}, err)

	_, err = DecodeCommand([]byte{0x02, 0x01})
	require.IsType(t, &ErrShortPayload{}, err)

	_, err = DecodeCommand([]byte{0x02, 0x09, 0x00, 0x00, 0x27, 0x10})
	require.Equal(t, ErrInvalidMotor, err)

	_, err = DecodeCommand([]byte{0x04, 0x04})
	require.Equal(t, ErrInvalidMotor, err)
}
