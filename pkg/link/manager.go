package link

import (
	"context"

	"go.uber.org/zap"
)

// Manager owns the single active Backend and maps its lifecycle onto
// the application's cooperative model: Setup once, Tick every cycle.
type Manager struct {
	backend Backend
	log     *zap.Logger
	up      bool
}

func NewManager(b Backend) *Manager {
	return &Manager{backend: b, log: zap.L().Named("link")}
}

// Backend exposes the managed backend so request backends can hold a
// back-reference to the live link. The Manager stays the sole owner.
func (m *Manager) Backend() Backend { return m.backend }

// Setup brings the link up once. Calling it again is an error; the
// periodic path is Tick.
func (m *Manager) Setup(ctx context.Context) error {
	if m.up {
		return nil
	}
	m.log.Info("bringing link up", zap.Stringer("kind", m.backend.Kind()))
	if err := m.backend.BringUp(ctx); err != nil {
		return err
	}
	m.up = true
	m.log.Info("link up", zap.String("addr", m.backend.LocalAddr().String()))
	return nil
}

// Tick re-establishes the link if it silently dropped. Wired backends
// make this a no-op; wireless backends re-run bring-up when the
// association is gone. Intended to be called once per application cycle.
func (m *Manager) Tick(ctx context.Context) error {
	if !m.up {
		return m.Setup(ctx)
	}
	return m.backend.EnsureLink(ctx)
}
