// Package feed streams telemetry events to websocket clients, typically
// a dashboard observing raw link traffic.
package feed

import (
	"container/list"
	"encoding/json"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Event is the envelope sent to feed clients.
type Event struct {
	Topic string          `json:"topic"`
	Msg   json.RawMessage `json:"msg"`
}

// clientDepth bounds the per-client backlog; slow clients lose events.
const clientDepth = 64

// Server broadcasts telemetry events to connected websocket clients.
// It implements telemetry.Sink.
type Server struct {
	lock    sync.Mutex
	clients list.List
}

// Publish implements telemetry.Sink.
func (s *Server) Publish(topic string, payload []byte) {
	ev := Event{Topic: topic, Msg: json.RawMessage(payload)}
	out, err := json.Marshal(&ev)
	if err != nil {
		return
	}
	s.lock.Lock()
	for elm := s.clients.Front(); elm != nil; elm = elm.Next() {
		select {
		case elm.Value.(chan []byte) <- out:
		default:
		}
	}
	s.lock.Unlock()
}

// Handler returns the websocket handler serving the feed.
func (s *Server) Handler() websocket.Handler {
	return websocket.Handler(s.serve)
}

func (s *Server) serve(conn *websocket.Conn) {
	ch := make(chan []byte, clientDepth)
	s.lock.Lock()
	elm := s.clients.PushBack(ch)
	s.lock.Unlock()
	glog.V(2).Infof("feed client %s connected", conn.Request().RemoteAddr)
	defer func() {
		s.lock.Lock()
		s.clients.Remove(elm)
		s.lock.Unlock()
		glog.V(2).Infof("feed client %s gone", conn.Request().RemoteAddr)
	}()

	// the feed is write-only; the read side only tells us the client left
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		var discard []byte
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case out := <-ch:
			if err := websocket.Message.Send(conn, string(out)); err != nil {
				return
			}
		}
	}
}

func (s *Server) clientCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.clients.Len()
}
