// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package completion

import (
	"context"
	"sync"
	"testing"

	"github.com/AccelByte/extend-flick-countdown/pkg/display"
	"github.com/AccelByte/extend-flick-countdown/pkg/score"
)

type fakeScores struct {
	mu      sync.Mutex
	mapping score.Mapping
	freezes int
}

func (f *fakeScores) Freeze() score.Mapping {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freezes++
	return f.mapping.Clone()
}

func text(t *testing.T, surface *display.Memory, id string) string {
	t.Helper()
	el, ok := surface.Element(id)
	if !ok {
		t.Fatalf("element %s missing", id)
	}
	return el.Text
}

func TestHandler_RunShowsWinner(t *testing.T) {
	scores := &fakeScores{mapping: score.Mapping{
		{Name: "ana", Score: 2},
		{Name: "bia", Score: 3},
		{Name: "caio", Score: 3},
	}}
	surface := display.NewMemory(display.DefaultLayout())
	handler := NewHandler(scores, surface, Messages{Prize: "Um sorvete"})

	if _, ok := handler.Winner(); ok {
		t.Fatal("winner should not be known before Run")
	}

	handler.Run(context.Background())

	winner, ok := handler.Winner()
	if !ok || winner != "bia" {
		t.Fatalf("Winner() = %q, %v; want bia", winner, ok)
	}

	if got, want := text(t, surface, display.ElementFinalTitle), "As férias chegaram! 🎉 Bia venceu!"; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
	if got := text(t, surface, display.ElementFinalMessage); got != DefaultMessage {
		t.Errorf("message = %q", got)
	}
	if got := text(t, surface, display.ElementFinalPrize); got != "Um sorvete" {
		t.Errorf("prize = %q", got)
	}

	panel, _ := surface.Element(display.ElementFinalPanel)
	if !panel.Visible {
		t.Error("final panel should be visible")
	}
	if len(handler.Final()) != 3 {
		t.Errorf("final scores = %v", handler.Final())
	}
}

func TestHandler_RunOnce(t *testing.T) {
	scores := &fakeScores{mapping: score.Mapping{{Name: "ana", Score: 1}}}
	surface := display.NewMemory(display.DefaultLayout())
	handler := NewHandler(scores, surface, Messages{})

	var patches int
	var mu sync.Mutex
	surface.Watch(func(display.Patch) {
		mu.Lock()
		patches++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handler.Run(context.Background())
		}()
	}
	wg.Wait()

	if scores.freezes != 1 {
		t.Errorf("Freeze called %d times, want 1", scores.freezes)
	}

	mu.Lock()
	defer mu.Unlock()
	if patches != 4 {
		t.Errorf("got %d patches, want 4 (three texts and one show)", patches)
	}

	select {
	case <-handler.Done():
	default:
		t.Error("Done should be closed")
	}
}

func TestHandler_EmptyScores(t *testing.T) {
	surface := display.NewMemory(display.DefaultLayout())
	handler := NewHandler(&fakeScores{}, surface, Messages{})

	handler.Run(context.Background())

	winner, ok := handler.Winner()
	if !ok || winner != "" {
		t.Fatalf("Winner() = %q, %v; want empty", winner, ok)
	}
	if got := text(t, surface, display.ElementFinalTitle); got != DefaultNoWinnerTitle {
		t.Errorf("title = %q, want %q", got, DefaultNoWinnerTitle)
	}
}

func TestHandler_MissingElements(t *testing.T) {
	surface := display.NewMemory(display.Layout{
		IDs:    []string{display.ElementFinalPanel, display.ElementFinalMessage},
		Hidden: []string{display.ElementFinalPanel},
	})
	handler := NewHandler(&fakeScores{mapping: score.Mapping{{Name: "ana", Score: 1}}}, surface, Messages{})

	handler.Run(context.Background())

	if got := text(t, surface, display.ElementFinalMessage); got != DefaultMessage {
		t.Errorf("message = %q", got)
	}
	panel, _ := surface.Element(display.ElementFinalPanel)
	if !panel.Visible {
		t.Error("final panel should be visible")
	}
}

func TestMessages_Title(t *testing.T) {
	tests := []struct {
		name     string
		messages Messages
		winner   string
		want     string
	}{
		{"default", DefaultMessages(), "caio", "As férias chegaram! 🎉 Caio venceu!"},
		{"no winner", DefaultMessages(), "", DefaultNoWinnerTitle},
		{"no placeholder", Messages{TitleFormat: "Fim!"}, "ana", "Fim!"},
		{"custom", Messages{TitleFormat: "Parabéns, %s"}, "ana", "Parabéns, Ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.messages.Title(tt.winner); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.winner, got, tt.want)
			}
		})
	}
}
