package sim

import (
	"context"
	"net"
	"time"

	"github.com/golang/glog"

	fx "github.com/kpirover/rover.go/pkg/framework"
	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/proto"
	"github.com/kpirover/rover.go/pkg/l0/serial"
)

// Server accepts ground-side connections and answers framed commands
// against a shared ECU model.
type Server struct {
	ECU *ECU
}

// NewServer creates a Server with a fresh ECU.
func NewServer() *Server {
	return &Server{ECU: NewECU()}
}

// Name implements Named.
func (s *Server) Name() string { return "ecu-sim" }

// Serve accepts connections until the context is canceled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	glog.Infof("ECU simulator listening on %s", lis.Addr())
	return fx.RunWithContextCloser(ctx, lis, func() error {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return err
			}
			go s.serveConn(ctx, conn)
		}
	})
}

// commandDrain is how often a connection's inbound queue is drained.
const commandDrain = 2 * time.Millisecond

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	glog.V(2).Infof("conn %s open", conn.RemoteAddr())
	defer glog.V(2).Infof("conn %s closed", conn.RemoteAddr())
	link := comm.New(serial.Wrap(conn))
	link.Start()
	defer link.Close()

	ticker := time.NewTicker(commandDrain)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-link.Done():
			return
		case <-ticker.C:
			for {
				payload, ok := link.Receive()
				if !ok {
					break
				}
				s.handle(link, payload)
			}
		}
	}
}

func (s *Server) handle(link *comm.Transport, payload []byte) {
	cmd, err := proto.DecodeCommand(payload)
	if err != nil {
		glog.V(2).Infof("drop command: %v", err)
		return
	}
	if reply := s.ECU.HandleCommand(cmd); reply != nil {
		if err := link.Send(reply); err != nil {
			glog.Warningf("reply: %v", err)
		}
	}
}
