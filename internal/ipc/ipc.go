// Package ipc exposes a control interface over a unix socket.
//
// The protocol is newline-delimited JSON. Each request carries a
// "method" field; the response carries "ok" plus either "result" or
// "error". Queries run on the compositor's event loop, so clients see
// a consistent snapshot without the compositor growing locks.
package ipc

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/waycore/internal/compositor"
	"github.com/dshills/waycore/internal/eventloop"
	"github.com/dshills/waycore/internal/logging"
)

// ProtocolVersion is bumped on incompatible protocol changes.
const ProtocolVersion = 1

// maxRequestBytes bounds a single request line.
const maxRequestBytes = 64 * 1024

// queryTimeout bounds how long a connection waits for the event loop to
// service its query.
const queryTimeout = 5 * time.Second

// Server serves control requests on a unix socket.
type Server struct {
	comp *compositor.Compositor
	loop *eventloop.Loop
	log  *logging.Logger
	ln   net.Listener
	path string

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// Listen creates the socket at path and starts accepting connections.
// A stale socket file from a previous run is removed first.
func Listen(path string, loop *eventloop.Loop, comp *compositor.Compositor, log *logging.Logger) (*Server, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := removeStaleSocket(path); err != nil {
		return nil, err
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", path, err)
	}

	s := &Server{
		comp:  comp,
		loop:  loop,
		log:   log.WithComponent("ipc"),
		ln:    ln,
		path:  path,
		conns: make(map[net.Conn]struct{}),
	}
	s.wg.Add(1)
	go s.acceptLoop()
	s.log.Info("control socket at %s", path)
	return s, nil
}

// removeStaleSocket unlinks path if nothing is listening there.
func removeStaleSocket(path string) error {
	conn, err := net.Dial("unix", path)
	if err == nil {
		conn.Close()
		return fmt.Errorf("socket %s is in use", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", path, err)
	}
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				s.log.Warn("accept failed: %v", err)
			}
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxRequestBytes)
	for scanner.Scan() {
		resp := s.handle(scanner.Bytes())
		resp = append(resp, '\n')
		if _, err := conn.Write(resp); err != nil {
			s.log.Debug("write to client failed: %v", err)
			return
		}
	}
}

// handle runs one request and builds its response.
func (s *Server) handle(req []byte) []byte {
	if !gjson.ValidBytes(req) {
		return errorResponse("invalid json")
	}
	method := gjson.GetBytes(req, "method").String()
	if method == "" {
		return errorResponse("missing method")
	}

	// Run the query on the event loop; the compositor is single
	// threaded by design.
	type outcome struct {
		resp []byte
	}
	done := make(chan outcome, 1)
	err := s.loop.Post(func() {
		done <- outcome{resp: s.dispatch(method)}
	})
	if err != nil {
		return errorResponse("compositor is shutting down")
	}
	select {
	case out := <-done:
		return out.resp
	case <-time.After(queryTimeout):
		// The loop stopped with the query still queued.
		return errorResponse("compositor is shutting down")
	}
}

func (s *Server) dispatch(method string) []byte {
	switch method {
	case "version":
		return s.version()
	case "get_outputs":
		return s.getOutputs()
	case "get_surfaces":
		return s.getSurfaces()
	case "get_bindings":
		return s.getBindings()
	case "get_seat":
		return s.getSeat()
	default:
		return errorResponse(fmt.Sprintf("unknown method %q", method))
	}
}

func (s *Server) version() []byte {
	resp := okResponse()
	resp, _ = sjson.SetBytes(resp, "result.protocol", ProtocolVersion)
	return resp
}

func (s *Server) getOutputs() []byte {
	resp := okResponse()
	resp, _ = sjson.SetBytes(resp, "result.outputs", []any{})
	for i, o := range s.comp.Outputs() {
		g := o.Geometry()
		prefix := fmt.Sprintf("result.outputs.%d.", i)
		resp, _ = sjson.SetBytes(resp, prefix+"id", uint32(o.ID()))
		resp, _ = sjson.SetBytes(resp, prefix+"x", g.X)
		resp, _ = sjson.SetBytes(resp, prefix+"y", g.Y)
		resp, _ = sjson.SetBytes(resp, prefix+"width", g.W)
		resp, _ = sjson.SetBytes(resp, prefix+"height", g.H)
		resp, _ = sjson.SetBytes(resp, prefix+"flip_pending", s.comp.PendingFlips().Has(o.ID()))
	}
	return resp
}

func (s *Server) getSurfaces() []byte {
	resp := okResponse()
	resp, _ = sjson.SetBytes(resp, "result.surfaces", []any{})
	focus := s.comp.PointerFocus()
	for i, surf := range s.comp.Surfaces() {
		g := surf.Geometry()
		prefix := fmt.Sprintf("result.surfaces.%d.", i)
		resp, _ = sjson.SetBytes(resp, prefix+"id", uint32(surf.ID()))
		resp, _ = sjson.SetBytes(resp, prefix+"x", g.X)
		resp, _ = sjson.SetBytes(resp, prefix+"y", g.Y)
		resp, _ = sjson.SetBytes(resp, prefix+"width", g.W)
		resp, _ = sjson.SetBytes(resp, prefix+"height", g.H)
		resp, _ = sjson.SetBytes(resp, prefix+"focused", surf == focus)
	}
	return resp
}

func (s *Server) getBindings() []byte {
	resp := okResponse()
	resp, _ = sjson.SetBytes(resp, "result.bindings", []any{})
	for i, b := range s.comp.Bindings().Bindings() {
		resp, _ = sjson.SetBytes(resp, fmt.Sprintf("result.bindings.%d", i), b.String())
	}
	return resp
}

func (s *Server) getSeat() []byte {
	st := s.comp.Seat()
	x, y := st.PointerPosition()

	resp := okResponse()
	resp, _ = sjson.SetBytes(resp, "result.name", st.Name)
	resp, _ = sjson.SetBytes(resp, "result.capabilities", st.Capabilities().String())
	resp, _ = sjson.SetBytes(resp, "result.modifiers", st.Modifiers().String())
	resp, _ = sjson.SetBytes(resp, "result.pointer.x", x.Int())
	resp, _ = sjson.SetBytes(resp, "result.pointer.y", y.Int())
	return resp
}

func okResponse() []byte {
	resp, _ := sjson.SetBytes([]byte(`{}`), "ok", true)
	return resp
}

func errorResponse(msg string) []byte {
	resp, _ := sjson.SetBytes([]byte(`{}`), "ok", false)
	resp, _ = sjson.SetBytes(resp, "error", msg)
	return resp
}

// Close stops accepting, drops live connections, and removes the
// socket file.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	err := s.ln.Close()
	s.wg.Wait()
	os.Remove(s.path)
	return err
}
