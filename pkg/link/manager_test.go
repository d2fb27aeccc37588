package link_test

import (
	"context"
	"testing"

	"uplink/pkg/link"
	"uplink/pkg/link/linktest"
)

func TestManagerSetupOnce(t *testing.T) {
	b := &linktest.Backend{}
	m := link.NewManager(b)
	ctx := context.Background()
	if err := m.Setup(ctx); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.Setup(ctx); err != nil {
		t.Fatalf("second setup: %v", err)
	}
	if b.BringUps != 1 {
		t.Fatalf("bring-ups = %d, want 1", b.BringUps)
	}
}

func TestManagerTickDelegatesToEnsureLink(t *testing.T) {
	b := &linktest.Backend{}
	m := link.NewManager(b)
	ctx := context.Background()
	if err := m.Setup(ctx); err != nil {
		t.Fatalf("setup: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := m.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if b.EnsureCalls != 3 {
		t.Fatalf("ensure calls = %d, want 3", b.EnsureCalls)
	}
	if b.BringUps != 1 {
		t.Fatalf("tick re-ran bring-up: %d", b.BringUps)
	}
}

func TestManagerTickBeforeSetup(t *testing.T) {
	b := &linktest.Backend{}
	m := link.NewManager(b)
	if err := m.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if b.BringUps != 1 || b.EnsureCalls != 0 {
		t.Fatalf("first tick should bring the link up: bringups=%d ensures=%d", b.BringUps, b.EnsureCalls)
	}
}
