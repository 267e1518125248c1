package proxy

import (
	"testing"
	"time"
)

func TestNewSocksClient_Timeout(t *testing.T) {
	c, err := NewSocksClient("127.0.0.1:1080", 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if c.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", c.Timeout)
	}
	if c.Transport == nil {
		t.Error("transport not set")
	}
}

func TestNewSocksClient_DefaultTimeout(t *testing.T) {
	c, err := NewSocksClient("127.0.0.1:1080", 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want default %v", c.Timeout, DefaultTimeout)
	}
}
