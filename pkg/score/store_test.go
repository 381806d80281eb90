// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/AccelByte/extend-flick-countdown/pkg/score/mock"
)

func TestStore_IncrementNTimes(t *testing.T) {
	store := score.NewStore(score.NewMemoryBackend(), nil)
	ctx := context.Background()

	const n = 25
	for i := 0; i < n; i++ {
		store.Increment(ctx, "ana")
	}

	if v, _ := store.Snapshot().Get("ana"); v != n {
		t.Errorf("ana = %d, expected %d", v, n)
	}
}

func TestStore_IncrementConcurrent(t *testing.T) {
	store := score.NewStore(score.NewMemoryBackend(), nil, "ana", "bia")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); store.Increment(ctx, "ana") }()
		go func() { defer wg.Done(); store.Increment(ctx, "bia") }()
	}
	wg.Wait()

	snapshot := store.Snapshot()
	if v, _ := snapshot.Get("ana"); v != 50 {
		t.Errorf("ana = %d, expected 50", v)
	}
	if v, _ := snapshot.Get("bia"); v != 50 {
		t.Errorf("bia = %d, expected 50", v)
	}
}

func TestStore_LockdownFreezesScores(t *testing.T) {
	lockdown := &score.Lockdown{}
	store := score.NewStore(score.NewMemoryBackend(), lockdown, "ana")
	ctx := context.Background()

	store.Increment(ctx, "ana")
	frozen := store.Freeze()

	if !lockdown.Engaged() {
		t.Fatal("Freeze() should engage the lockdown")
	}

	value, ok := store.Increment(ctx, "ana")
	if ok {
		t.Error("Increment() after lockdown should report false")
	}
	if value != 1 {
		t.Errorf("Increment() after lockdown returned %d, expected 1", value)
	}
	if _, ok := store.Increment(ctx, "newcomer"); ok {
		t.Error("Increment() of a new name after lockdown should report false")
	}

	if !reflect.DeepEqual(store.Snapshot(), frozen) {
		t.Errorf("Snapshot() = %v, expected frozen %v", store.Snapshot(), frozen)
	}
}

func TestStore_InvalidNamesIgnored(t *testing.T) {
	tests := []struct {
		name        string
		participant string
		accepted    bool
	}{
		{name: "empty", participant: "", accepted: false},
		{name: "too long", participant: strings.Repeat("a", score.MaxNameLength+1), accepted: false},
		{name: "longest", participant: strings.Repeat("a", score.MaxNameLength), accepted: true},
		{name: "multibyte runes count once", participant: strings.Repeat("ã", score.MaxNameLength), accepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := mock.NewBackend()
			store := score.NewStore(backend, nil)

			_, ok := store.Increment(context.Background(), tt.participant)
			if ok != tt.accepted {
				t.Errorf("Increment() accepted = %v, want %v", ok, tt.accepted)
			}
			if !tt.accepted && len(backend.Puts()) != 0 {
				t.Errorf("expected no backend writes, got %d", len(backend.Puts()))
			}
			if !tt.accepted && len(store.Snapshot()) != 0 {
				t.Errorf("Snapshot() = %v, expected empty", store.Snapshot())
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if err := score.ValidateName(strings.Repeat("b", score.MaxNameLength+1)); !errors.Is(err, score.ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if err := score.ValidateName("ana"); err != nil {
		t.Errorf("ValidateName(ana) error = %v", err)
	}
}

func TestStore_BackendWriteDoesNotHoldLock(t *testing.T) {
	backend := mock.NewBackend()
	store := score.NewStore(backend, nil, "ana")

	release := make(chan struct{})
	writing := make(chan struct{})
	backend.PutFunc = func(ctx context.Context, name string, value int, snapshot score.Mapping) error {
		close(writing)
		<-release
		return nil
	}

	done := make(chan int)
	go func() {
		v, _ := store.Increment(context.Background(), "ana")
		done <- v
	}()
	<-writing

	snapshots := make(chan score.Mapping)
	go func() { snapshots <- store.Snapshot() }()

	select {
	case m := <-snapshots:
		if v, _ := m.Get("ana"); v != 1 {
			t.Errorf("ana during write = %d, expected 1", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Snapshot() blocked behind a backend write")
	}

	close(release)
	if v := <-done; v != 1 {
		t.Errorf("Increment() = %d, expected 1", v)
	}
}

func TestStore_NotificationsFollowChangeOrder(t *testing.T) {
	store := score.NewStore(score.NewMemoryBackend(), nil, "ana")

	var mu sync.Mutex
	var seen []int
	store.OnChange(func(m score.Mapping) {
		v, _ := m.Get("ana")
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() { defer wg.Done(); store.Increment(context.Background(), "ana") }()
	}
	wg.Wait()

	if len(seen) != 100 {
		t.Fatalf("expected 100 notifications, got %d", len(seen))
	}
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("notification %d carried ana=%d, expected %d", i, v, i+1)
		}
	}
}

func TestStore_WritesReachBackendInOrder(t *testing.T) {
	backend := mock.NewBackend()
	store := score.NewStore(backend, nil, "ana")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() { defer wg.Done(); store.Increment(context.Background(), "ana") }()
	}
	wg.Wait()

	puts := backend.Puts()
	if len(puts) != 100 {
		t.Fatalf("expected 100 puts, got %d", len(puts))
	}
	for i, p := range puts {
		if p.Value != i+1 {
			t.Fatalf("put %d wrote ana=%d, expected %d", i, p.Value, i+1)
		}
	}
}

func TestStore_IncrementWritesThroughBackend(t *testing.T) {
	backend := mock.NewBackend()
	store := score.NewStore(backend, nil, "ana", "bia")
	ctx := context.Background()

	store.Increment(ctx, "bia")
	store.Increment(ctx, "bia")

	puts := backend.Puts()
	if len(puts) != 2 {
		t.Fatalf("expected 2 puts, got %d", len(puts))
	}
	last := puts[1]
	if last.Name != "bia" || last.Value != 2 {
		t.Errorf("last put = %s=%d, expected bia=2", last.Name, last.Value)
	}
	expected := score.Mapping{{Name: "ana", Score: 0}, {Name: "bia", Score: 2}}
	if !reflect.DeepEqual(last.Snapshot, expected) {
		t.Errorf("last snapshot = %v, expected %v", last.Snapshot, expected)
	}
}

func TestStore_PutErrorKeepsMemoryState(t *testing.T) {
	backend := mock.NewBackend().WithPutError(errors.New("disk full"))
	store := score.NewStore(backend, nil)

	var renders int
	store.OnChange(func(score.Mapping) { renders++ })

	value, ok := store.Increment(context.Background(), "ana")
	if !ok || value != 1 {
		t.Errorf("Increment() = (%d, %v), expected (1, true)", value, ok)
	}
	if renders != 1 {
		t.Errorf("expected 1 render, got %d", renders)
	}
}

func TestStore_LoadMergesSeed(t *testing.T) {
	backend := mock.NewBackend().WithInitial(score.Mapping{{Name: "caio", Score: 4}, {Name: "ana", Score: 1}})
	store := score.NewStore(backend, nil, "ana", "bia")

	var rendered score.Mapping
	store.OnChange(func(m score.Mapping) { rendered = m })

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := score.Mapping{{Name: "caio", Score: 4}, {Name: "ana", Score: 1}, {Name: "bia", Score: 0}}
	if !reflect.DeepEqual(store.Snapshot(), expected) {
		t.Errorf("Snapshot() = %v, expected %v", store.Snapshot(), expected)
	}
	if !reflect.DeepEqual(rendered, expected) {
		t.Errorf("rendered = %v, expected %v", rendered, expected)
	}
}

func TestStore_LoadErrorFallsBackToSeed(t *testing.T) {
	backend := mock.NewBackend().WithLoadError(errors.New("corrupt"))
	store := score.NewStore(backend, nil, "ana")

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v, expected read errors to be swallowed", err)
	}

	expected := score.NewMapping("ana")
	if !reflect.DeepEqual(store.Snapshot(), expected) {
		t.Errorf("Snapshot() = %v, expected %v", store.Snapshot(), expected)
	}
}

func TestStore_SubscribeErrorReturned(t *testing.T) {
	backend := mock.NewBackend()
	backend.SubscribeFunc = func(ctx context.Context, fn func(score.Mapping)) (score.Subscription, error) {
		return nil, errors.New("unreachable")
	}
	store := score.NewStore(backend, nil)

	if err := store.Load(context.Background()); err == nil {
		t.Error("expected subscribe error from Load()")
	}
}

func TestStore_RemoteUpdates(t *testing.T) {
	backend := mock.NewBackend()
	store := score.NewStore(backend, nil, "ana", "bia")

	var renders []score.Mapping
	store.OnChange(func(m score.Mapping) { renders = append(renders, m) })

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	backend.Push(score.Mapping{{Name: "bia", Score: 7}})

	expected := score.Mapping{{Name: "ana", Score: 0}, {Name: "bia", Score: 7}}
	if !reflect.DeepEqual(store.Snapshot(), expected) {
		t.Errorf("Snapshot() = %v, expected %v", store.Snapshot(), expected)
	}
	if len(renders) != 2 {
		t.Fatalf("expected 2 renders (load + push), got %d", len(renders))
	}

	// local increments build on the remote value
	if v, _ := store.Increment(context.Background(), "bia"); v != 8 {
		t.Errorf("Increment() = %d, expected 8", v)
	}
}

func TestStore_RemoteChangesDuringLoad(t *testing.T) {
	backend := mock.NewBackend()
	store := score.NewStore(backend, nil, "ana")

	backend.LoadFunc = func(ctx context.Context) (score.Mapping, error) {
		// a change written after the subscription but before the read returns
		backend.Push(score.Mapping{{Name: "bia", Score: 3}})
		return score.Mapping{{Name: "ana", Score: 2}}, nil
	}

	var renders []score.Mapping
	store.OnChange(func(m score.Mapping) { renders = append(renders, m) })

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := score.Mapping{{Name: "ana", Score: 2}, {Name: "bia", Score: 3}}
	if !reflect.DeepEqual(store.Snapshot(), expected) {
		t.Errorf("Snapshot() = %v, expected %v", store.Snapshot(), expected)
	}
	if len(renders) != 1 || !reflect.DeepEqual(renders[0], expected) {
		t.Errorf("renders = %v, expected one render of %v", renders, expected)
	}
}

func TestStore_RemoteUpdatesIgnoredAfterLockdown(t *testing.T) {
	backend := mock.NewBackend()
	store := score.NewStore(backend, nil, "ana")
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	frozen := store.Freeze()
	backend.Push(score.Mapping{{Name: "ana", Score: 99}})

	if !reflect.DeepEqual(store.Snapshot(), frozen) {
		t.Errorf("Snapshot() = %v, expected frozen %v", store.Snapshot(), frozen)
	}
}

func TestStore_CloseCancelsSubscription(t *testing.T) {
	backend := mock.NewBackend()
	store := score.NewStore(backend, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if backend.Cancelled() != 1 {
		t.Errorf("expected subscription cancelled once, got %d", backend.Cancelled())
	}
	if !backend.Closed() {
		t.Error("expected backend closed")
	}
}

func TestHealthChecker(t *testing.T) {
	backend := mock.NewBackend()
	checker := score.NewHealthChecker(backend)

	if !checker.IsHealthy(context.Background()) {
		t.Error("expected healthy backend")
	}

	backend.PingErr = errors.New("down")
	if checker.IsHealthy(context.Background()) {
		t.Error("expected unhealthy backend")
	}

	if !score.NewHealthChecker(score.NewMemoryBackend()).IsHealthy(context.Background()) {
		t.Error("backends without Ping should be healthy")
	}
}
