// Package publish implements the publish/subscribe request backend. It
// drives an external MQTT client bound to the live link; the client
// owns its own reconnect and keepalive internals, this layer only
// sequences connect attempts and maps publish results onto the shared
// Status surface.
package publish

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"uplink/pkg/identity"
	"uplink/pkg/link"
	"uplink/pkg/request"
)

// Client is the slice of the MQTT client this backend drives. The
// concrete implementation is paho's; tests substitute a fake.
type Client interface {
	IsConnected() bool
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Config holds the publish variant's broker and credential options.
type Config struct {
	Host  string
	Port  int
	Topic string

	Username string
	Password string
	// ClientID defaults to the link identity when empty.
	ClientID string

	// RetryDelay separates broker connect attempts.
	RetryDelay time.Duration
	// MaxAttempts bounds Setup's connect loop; 0 keeps it unbounded.
	MaxAttempts int
	// PublishTimeout bounds how long Send waits for the client to
	// confirm one publish.
	PublishTimeout time.Duration
}

// Engine is one publish session over a live link backend.
type Engine struct {
	client Client
	cfg    Config
	sleep  func(time.Duration)
	log    *zap.Logger
}

// New builds the paho client against the given link backend and wraps
// it. The broker socket is opened through the link, not around it, so
// the backend's connect primitive stays ground truth. The identity
// supplies the default client id.
func New(lnk link.Backend, id identity.Identity, cfg Config) *Engine {
	if cfg.Port == 0 {
		cfg.Port = 1883
	}
	if cfg.ClientID == "" {
		cfg.ClientID = id.String()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(false).
		SetCustomOpenConnectionFn(func(uri *url.URL, _ mqtt.ClientOptions) (net.Conn, error) {
			port, err := strconv.Atoi(uri.Port())
			if err != nil {
				return nil, fmt.Errorf("broker port %q: %w", uri.Port(), err)
			}
			conn, ok := lnk.Connect(uri.Hostname(), port)
			if !ok {
				return nil, fmt.Errorf("link refused connection to %s", uri.Host)
			}
			raw, ok := conn.(interface{ NetConn() net.Conn })
			if !ok {
				_ = conn.Close()
				return nil, fmt.Errorf("link connection cannot back an MQTT socket")
			}
			return raw.NetConn(), nil
		})
	return newEngine(mqtt.NewClient(opts), cfg)
}

func newEngine(c Client, cfg Config) *Engine {
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	return &Engine{client: c, cfg: cfg, sleep: time.Sleep, log: zap.L().Named("publish")}
}

func (e *Engine) Kind() request.Kind { return request.KindPublish }

// Setup connects to the broker, retrying on a fixed delay. Unbounded
// unless MaxAttempts is set; the context is the only other way out. A
// no-op while the client reports itself connected, which is what makes
// re-running it every cycle safe.
func (e *Engine) Setup(ctx context.Context) error {
	attempts := 0
	for !e.client.IsConnected() {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok := e.client.Connect()
		tok.Wait()
		if err := tok.Error(); err != nil {
			e.log.Warn("broker connect failed", zap.Error(err))
			attempts++
			if e.cfg.MaxAttempts > 0 && attempts >= e.cfg.MaxAttempts {
				return fmt.Errorf("broker connect: %w", err)
			}
			e.sleep(e.cfg.RetryDelay)
			continue
		}
		e.log.Info("broker connected", zap.String("client_id", e.cfg.ClientID))
	}
	return nil
}

// Tick re-runs Setup. The client's own maintenance (keepalive, inbound
// dispatch) runs inside the external library, so reconnecting a dropped
// session is all the periodic work left to this layer.
func (e *Engine) Tick(ctx context.Context) error { return e.Setup(ctx) }

// Send publishes the payload to the configured topic. One attempt, the
// client's verdict mapped onto Status: accepted or nothing.
func (e *Engine) Send(_ context.Context, payload []byte) request.Status {
	tok := e.client.Publish(e.cfg.Topic, 0, false, payload)
	if !tok.WaitTimeout(e.cfg.PublishTimeout) {
		e.log.Debug("publish confirmation timed out", zap.String("topic", e.cfg.Topic))
		return request.StatusNone
	}
	if err := tok.Error(); err != nil {
		e.log.Debug("publish failed", zap.Error(err))
		return request.StatusNone
	}
	e.log.Debug("published", zap.String("topic", e.cfg.Topic), zap.Int("bytes", len(payload)))
	return request.StatusAccepted
}
