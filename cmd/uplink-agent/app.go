package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"uplink/pkg/config"
	"uplink/pkg/identity"
	"uplink/pkg/link"
	"uplink/pkg/link/wired"
	"uplink/pkg/link/wireless"
	"uplink/pkg/observability"
	"uplink/pkg/request"
	"uplink/pkg/request/httpeng"
	"uplink/pkg/request/publish"
)

// run is the main entry point after CLI parsing: setup once, then tick
// forever until the process is told to stop.
func run(opts Options) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	zap.L().Info("uplink-agent started", zap.String("app", cfg.AppName))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lnk, err := buildLink(cfg.Link)
	if err != nil {
		zap.L().Error("failed to build link backend", zap.Error(err))
		return 1
	}
	mgr := link.NewManager(lnk)
	if err := mgr.Setup(ctx); err != nil {
		zap.L().Error("link bring-up failed", zap.Error(err))
		return 1
	}

	// Identity becomes valid only after bring-up; the publish backend
	// reads it as the default client id.
	mac, err := cfg.Link.HardwareAddr()
	if err != nil {
		zap.L().Error("bad hardware address", zap.Error(err))
		return 1
	}
	id := identity.FromMAC(mac)
	zap.L().Info("link identity", zap.String("id", id.String()))

	req, err := buildRequest(cfg.Request, lnk, id)
	if err != nil {
		zap.L().Error("failed to build request backend", zap.Error(err))
		return 1
	}
	if err := req.Setup(ctx); err != nil {
		zap.L().Error("request setup failed", zap.Error(err))
		return 1
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()
	payload := []byte(opts.Payload)
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("shutting down")
			return 0
		case <-ticker.C:
		}

		if err := mgr.Tick(ctx); err != nil {
			zap.L().Error("link maintenance failed", zap.Error(err))
			continue
		}
		if err := req.Tick(ctx); err != nil {
			zap.L().Error("request maintenance failed", zap.Error(err))
			continue
		}

		status := req.Send(ctx, payload)
		if status.OK() {
			zap.L().Info("send ok", zap.Int("status", int(status)))
		} else {
			zap.L().Warn("send failed")
		}
	}
}

// buildLink resolves the configured transport variant once at startup.
func buildLink(c config.LinkConfig) (link.Backend, error) {
	kind, err := link.ParseKind(c.Kind)
	if err != nil {
		return nil, err
	}
	mac, err := c.HardwareAddr()
	if err != nil {
		return nil, err
	}
	dialTimeout := time.Duration(c.DialTimeoutMS) * time.Millisecond
	switch kind {
	case link.KindWired:
		static, err := c.StaticAddr()
		if err != nil {
			return nil, err
		}
		return wired.New(wired.SystemDevice{}, wired.Config{
			MAC:         mac,
			StaticAddr:  static,
			SettleDelay: time.Duration(c.SettleMS) * time.Millisecond,
			DialTimeout: dialTimeout,
		}), nil
	case link.KindWireless:
		return wireless.New(&wireless.SystemSupplicant{}, wireless.Config{
			SSID:         c.SSID,
			Passphrase:   c.Passphrase,
			PollInterval: time.Duration(c.AssocPollMS) * time.Millisecond,
			MaxPolls:     c.AssocMaxPolls,
			DialTimeout:  dialTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported link kind %q", c.Kind)
	}
}

// buildRequest resolves the configured request variant once at startup.
func buildRequest(c config.RequestConfig, lnk link.Backend, id identity.Identity) (request.Backend, error) {
	kind, err := request.ParseKind(c.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case request.KindHTTP:
		return httpeng.New(lnk, httpeng.Config{
			Host:         c.Host,
			Path:         c.Path,
			Port:         c.Port,
			Method:       c.Method,
			ExtraHeaders: c.Headers,
			ReplyWait:    c.ReplyWaitMS,
		}), nil
	case request.KindPublish:
		return publish.New(lnk, id, publish.Config{
			Host:        c.Host,
			Port:        c.Port,
			Topic:       c.Path,
			Username:    c.Username,
			Password:    c.Password,
			ClientID:    c.ClientID,
			RetryDelay:  time.Duration(c.RetryDelayMS) * time.Millisecond,
			MaxAttempts: c.MaxAttempts,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported request kind %q", c.Kind)
	}
}
