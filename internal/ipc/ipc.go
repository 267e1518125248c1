// Package ipc is the daemon's unix-socket control surface: one JSON
// request and one JSON response per connection.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
)

const DefaultSocketPath = "/tmp/murmur.sock"

// Request is one control command. Arg is command-specific (the file path
// for "inject").
type Request struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

// Response reports the outcome back to the client.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Server accepts control connections until Close.
type Server struct {
	ln net.Listener
	wg sync.WaitGroup
}

// StartServer listens on the socket and dispatches each request to
// handler on its own goroutine.
func StartServer(socketPath string, handler func(Request) Response) (*Server, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	os.Remove(socketPath)

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", socketPath, err)
	}

	s := &Server{ln: ln}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.accept(handler)
	}()
	return s, nil
}

func (s *Server) accept(handler func(Request) Response) {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			handleConn(conn, handler)
		}()
	}
}

// Close stops accepting and waits for in-flight requests, so the handler
// is never invoked after Close returns. The daemon relies on that to tear
// down the resources the handler touches.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.wg.Wait()
	return err
}

func handleConn(conn net.Conn, handler func(Request) Response) {
	defer conn.Close()

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		return
	}

	resp := handler(req)
	json.NewEncoder(conn).Encode(resp)
}

// Send delivers one command to a running daemon and waits for its reply.
func Send(socketPath, cmd, arg string) (Response, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return Response{}, fmt.Errorf("dial %s: %w", socketPath, err)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(Request{Cmd: cmd, Arg: arg}); err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
