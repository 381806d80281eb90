// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/AccelByte/extend-flick-countdown/pkg/display"
	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/sirupsen/logrus"
)

// Default final panel texts.
const (
	DefaultTitleFormat   = "As férias chegaram! 🎉 %s venceu!"
	DefaultNoWinnerTitle = "As férias chegaram! 🎉"
	DefaultMessage       = "Bora pra praiaaa! 🏖️☀️🌊"
	DefaultPrize         = "O prêmio vai para quem flickou mais!"
)

// Messages are the texts shown on the final panel. TitleFormat receives
// the capitalized winner name.
type Messages struct {
	TitleFormat   string `yaml:"title_format"`
	NoWinnerTitle string `yaml:"no_winner_title"`
	Message       string `yaml:"message"`
	Prize         string `yaml:"prize"`
}

// DefaultMessages returns the stock final panel texts.
func DefaultMessages() Messages {
	return Messages{
		TitleFormat:   DefaultTitleFormat,
		NoWinnerTitle: DefaultNoWinnerTitle,
		Message:       DefaultMessage,
		Prize:         DefaultPrize,
	}
}

// WithDefaults fills empty fields from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	d := DefaultMessages()
	if m.TitleFormat == "" {
		m.TitleFormat = d.TitleFormat
	}
	if m.NoWinnerTitle == "" {
		m.NoWinnerTitle = d.NoWinnerTitle
	}
	if m.Message == "" {
		m.Message = d.Message
	}
	if m.Prize == "" {
		m.Prize = d.Prize
	}
	return m
}

// Title renders the title for winner.
func (m Messages) Title(winner string) string {
	if winner == "" {
		return m.NoWinnerTitle
	}
	if !strings.Contains(m.TitleFormat, "%s") {
		return m.TitleFormat
	}
	return fmt.Sprintf(m.TitleFormat, common.Capitalize(winner))
}

// Scores is the part of the score store the handler needs.
type Scores interface {
	Freeze() score.Mapping
}

// Handler runs the end-of-countdown sequence exactly once.
type Handler struct {
	scores   Scores
	surface  display.Surface
	messages Messages

	once   sync.Once
	done   chan struct{}
	mu     sync.RWMutex
	winner string
	final  score.Mapping
}

// NewHandler creates a completion handler.
func NewHandler(scores Scores, surface display.Surface, messages Messages) *Handler {
	return &Handler{
		scores:   scores,
		surface:  surface,
		messages: messages.WithDefaults(),
		done:     make(chan struct{}),
	}
}

// Run freezes the scores, picks the winner and reveals the final panel.
// Only the first call has any effect.
func (h *Handler) Run(ctx context.Context) {
	h.once.Do(func() {
		defer close(h.done)

		scope := common.NewScope(ctx, "completion.Run")
		defer scope.Finish()

		final := h.scores.Freeze()
		winner := score.Winner(final)

		h.mu.Lock()
		h.winner = winner
		h.final = final
		h.mu.Unlock()

		scope.SetAttributes("winner", winner)
		scope.Log.WithField("winner", winner).Infof("countdown finished with %d participants", len(final))

		texts := []struct {
			id   string
			text string
		}{
			{display.ElementFinalTitle, h.messages.Title(winner)},
			{display.ElementFinalMessage, h.messages.Message},
			{display.ElementFinalPrize, h.messages.Prize},
		}
		for _, t := range texts {
			h.write(scope.Log, h.surface.SetText(t.id, t.text))
		}
		h.write(scope.Log, h.surface.Show(display.ElementFinalPanel))
	})
}

func (h *Handler) write(log *logrus.Entry, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, display.ErrElementNotFound) {
		log.Debugf("final panel element skipped: %v", err)
		return
	}
	log.Errorf("failed to update final panel: %v", err)
}

// Winner returns the winner once Run has completed.
func (h *Handler) Winner() (string, bool) {
	select {
	case <-h.done:
	default:
		return "", false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.winner, true
}

// Final returns the frozen scores once Run has completed.
func (h *Handler) Final() score.Mapping {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.final.Clone()
}

// Done is closed when Run has completed.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
