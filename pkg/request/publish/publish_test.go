package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"uplink/pkg/request"
)

type fakeToken struct {
	err     error
	timeout bool
}

func (t *fakeToken) Wait() bool { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool {
	return !t.timeout
}
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

// fakeClient fails the first failuresLeft connect attempts, then
// connects.
type fakeClient struct {
	failuresLeft int
	connected    bool
	connects     int
	published    [][]byte
	topic        string
	pubErr       error
	pubTimeout   bool
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Connect() mqtt.Token {
	c.connects++
	if c.failuresLeft > 0 {
		c.failuresLeft--
		return &fakeToken{err: errors.New("connection refused")}
	}
	c.connected = true
	return &fakeToken{}
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.published = append(c.published, payload.([]byte))
	return &fakeToken{err: c.pubErr, timeout: c.pubTimeout}
}

func (c *fakeClient) Disconnect(uint) {}

func newTestEngine(c Client, cfg Config) *Engine {
	if cfg.Topic == "" {
		cfg.Topic = "esp32/test"
	}
	e := newEngine(c, cfg)
	e.sleep = func(time.Duration) {}
	return e
}

func TestSetupRetriesUntilConnected(t *testing.T) {
	c := &fakeClient{failuresLeft: 3}
	e := newTestEngine(c, Config{})
	if err := e.Setup(context.Background()); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if c.connects != 4 {
		t.Fatalf("connect attempts = %d, want 4", c.connects)
	}
}

func TestSetupBounded(t *testing.T) {
	c := &fakeClient{failuresLeft: 1 << 30}
	e := newTestEngine(c, Config{MaxAttempts: 5})
	if err := e.Setup(context.Background()); err == nil {
		t.Fatalf("expected bounded setup to fail")
	}
	if c.connects != 5 {
		t.Fatalf("connect attempts = %d, want 5", c.connects)
	}
}

func TestSetupContextCancel(t *testing.T) {
	c := &fakeClient{failuresLeft: 1 << 30}
	e := newTestEngine(c, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Setup(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestTickIdempotentWhenConnected(t *testing.T) {
	c := &fakeClient{}
	e := newTestEngine(c, Config{})
	if err := e.Setup(context.Background()); err != nil {
		t.Fatalf("setup: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := e.Tick(context.Background()); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if c.connects != 1 {
		t.Fatalf("healthy ticks reconnected: connects = %d", c.connects)
	}
}

func TestSend(t *testing.T) {
	c := &fakeClient{connected: true}
	e := newTestEngine(c, Config{})
	if got := e.Send(context.Background(), []byte("[data]")); got != request.StatusAccepted {
		t.Fatalf("status = %d, want accepted", got)
	}
	if c.topic != "esp32/test" || string(c.published[0]) != "[data]" {
		t.Fatalf("published %q to %q", c.published, c.topic)
	}
}

func TestSendFailure(t *testing.T) {
	c := &fakeClient{connected: true, pubErr: errors.New("not connected")}
	e := newTestEngine(c, Config{})
	if got := e.Send(context.Background(), []byte("x")); got != request.StatusNone {
		t.Fatalf("status = %d, want 0 on publish failure", got)
	}
}

func TestSendConfirmationTimeout(t *testing.T) {
	c := &fakeClient{connected: true, pubTimeout: true}
	e := newTestEngine(c, Config{})
	if got := e.Send(context.Background(), []byte("x")); got != request.StatusNone {
		t.Fatalf("status = %d, want 0 on confirmation timeout", got)
	}
}
