package ipc

import (
	"path/filepath"
	"testing"
	"time"
)

func socketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "murmur.sock")
}

func TestServer_RoundTrip(t *testing.T) {
	path := socketPath(t)
	srv, err := StartServer(path, func(req Request) Response {
		return Response{OK: true, Message: req.Cmd + ":" + req.Arg}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	resp, err := Send(path, "inject", "/tmp/a.wav")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Message != "inject:/tmp/a.wav" {
		t.Errorf("response = %+v", resp)
	}
}

func TestServer_CloseStopsHandling(t *testing.T) {
	path := socketPath(t)
	calls := make(chan struct{}, 8)
	srv, err := StartServer(path, func(Request) Response {
		calls <- struct{}{}
		return Response{OK: true}
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := srv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Send(path, "start", ""); err == nil {
		t.Error("Send succeeded after Close")
	}
	if len(calls) != 0 {
		t.Error("handler ran after Close")
	}
}

func TestServer_CloseWaitsForInflight(t *testing.T) {
	path := socketPath(t)
	started := make(chan struct{})
	release := make(chan struct{})
	srv, err := StartServer(path, func(Request) Response {
		close(started)
		<-release
		return Response{OK: true, Message: "done"}
	})
	if err != nil {
		t.Fatal(err)
	}

	sendDone := make(chan Response, 1)
	go func() {
		resp, _ := Send(path, "status", "")
		sendDone <- resp
	}()

	<-started
	closed := make(chan struct{})
	go func() {
		srv.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a request was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the request finished")
	}

	if resp := <-sendDone; resp.Message != "done" {
		t.Errorf("in-flight response = %+v", resp)
	}
}
