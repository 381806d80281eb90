// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package display

import (
	"errors"
	"fmt"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/AccelByte/extend-flick-countdown/pkg/metrics"
	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/sirupsen/logrus"
)

// Presenter projects a score mapping onto the scoreboard list.
type Presenter struct {
	surface Surface
	listID  string
}

// NewPresenter creates a presenter writing to the scoreboard element of surface.
func NewPresenter(surface Surface) *Presenter {
	return &Presenter{
		surface: surface,
		listID:  ElementScoreboard,
	}
}

// Render replaces the scoreboard with one "Name: score" item per entry,
// in mapping order.
func (p *Presenter) Render(m score.Mapping) {
	if err := p.surface.SetList(p.listID, Lines(m)); err != nil {
		if errors.Is(err, ErrElementNotFound) {
			logrus.Debugf("scoreboard not rendered: %v", err)
			return
		}
		logrus.Errorf("failed to render scoreboard: %v", err)
		return
	}
	metrics.ScoreboardRendersTotal.Inc()
}

// Lines formats the scoreboard entries of m.
func Lines(m score.Mapping) []string {
	lines := make([]string, 0, len(m))
	for _, e := range m {
		lines = append(lines, fmt.Sprintf("%s: %d", common.Capitalize(e.Name), e.Score))
	}
	return lines
}
