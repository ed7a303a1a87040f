package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessionStore_CreateGetDelete(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)

	s := store.Create()
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	got, err := store.Get(s.ID())
	if err != nil || got != s {
		t.Fatalf("expected to get the created session, got %v, %v", got, err)
	}
	if !store.Exists(s.ID()) {
		t.Fatal("expected session to exist")
	}

	if err := store.Delete(s.ID()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := store.Delete(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestSessionStore_SessionsAreIndependent(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	a := store.Create()
	b := store.Create()

	c := NewController(&stubModel{raw: `{"language":"en","answer_text":"hi","suggested_followup":null}`}, nil)
	if _, err := c.Submit(context.Background(), a, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.History()) != 4 {
		t.Fatalf("expected session a to have 4 history entries, got %d", len(a.History()))
	}
	if len(b.History()) != 2 {
		t.Fatalf("session b should be untouched, got %d entries", len(b.History()))
	}
}

func TestSessionStore_EvictIdle(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	idle := store.Create()
	busy := store.Create()
	busy.begin("still thinking")

	now := time.Now().UTC()
	if n := store.EvictIdle(now); n != 0 {
		t.Fatalf("nothing should be evicted yet, evicted %d", n)
	}

	if n := store.EvictIdle(now.Add(2 * time.Hour)); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if store.Exists(idle.ID()) {
		t.Fatal("idle session should be evicted")
	}
	if !store.Exists(busy.ID()) {
		t.Fatal("processing session must not be evicted")
	}
}

func TestSessionStore_ZeroTTLDisablesEviction(t *testing.T) {
	store := NewSessionStore(0, nil)
	store.Create()

	if n := store.EvictIdle(time.Now().Add(24 * time.Hour)); n != 0 {
		t.Fatalf("expected no eviction, got %d", n)
	}

	store.Start()
	store.Stop()
	store.Stop()
}

func TestSessionStore_GetUnknown(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	if _, err := store.Get(uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_EvictIdleNotifiesEvictedSessions(t *testing.T) {
	var evicted []uuid.UUID
	store := NewSessionStore(time.Hour, func(id uuid.UUID) {
		evicted = append(evicted, id)
	})
	idle := store.Create()
	busy := store.Create()
	busy.begin("still thinking")

	if n := store.EvictIdle(time.Now().UTC().Add(2 * time.Hour)); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if len(evicted) != 1 || evicted[0] != idle.ID() {
		t.Fatalf("expected eviction callback for %s, got %v", idle.ID(), evicted)
	}
}
