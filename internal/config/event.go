// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/AccelByte/extend-flick-countdown/pkg/completion"
	"github.com/AccelByte/extend-flick-countdown/pkg/countdown"
	"gopkg.in/yaml.v3"
)

// Event is the countdown event loaded from the event file.
type Event struct {
	TargetDate   string              `yaml:"target_date"`
	TimeZone     string              `yaml:"time_zone,omitempty"`
	Participants []string            `yaml:"participants"`
	Namespace    string              `yaml:"namespace,omitempty"`
	Final        completion.Messages `yaml:"final"`
}

// LoadEvent loads the event file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadEvent(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file %s: %w", path, err)
	}

	return ParseEvent(data)
}

// ParseEvent parses event file contents.
func ParseEvent(data []byte) (*Event, error) {
	expanded := expandEnvVars(string(data))

	var event Event
	if err := yaml.Unmarshal([]byte(expanded), &event); err != nil {
		return nil, fmt.Errorf("failed to parse event YAML: %w", err)
	}

	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	return &event, nil
}

// Validate checks participant names. The target date is checked by Target
// so a bad date disables only the countdown.
func (e *Event) Validate() error {
	seen := make(map[string]bool, len(e.Participants))
	for _, name := range e.Participants {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("participant with empty name found")
		}
		if seen[name] {
			return fmt.Errorf("duplicate participant: %s", name)
		}
		seen[name] = true
	}

	if e.TimeZone != "" {
		if _, err := time.LoadLocation(e.TimeZone); err != nil {
			return fmt.Errorf("invalid time_zone %q: %w", e.TimeZone, err)
		}
	}

	return nil
}

// ApplyOverrides lets environment settings take precedence over the file.
func (e *Event) ApplyOverrides(cfg *Config) {
	if cfg.TargetDate != "" {
		e.TargetDate = cfg.TargetDate
	}
	if cfg.TimeZone != "" {
		e.TimeZone = cfg.TimeZone
	}
	if cfg.ScoreNamespace != "" {
		e.Namespace = cfg.ScoreNamespace
	}
}

// Location returns the zone used for target dates without an offset.
func (e *Event) Location() *time.Location {
	if e.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(e.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Target parses the target date. Errors wrap countdown.ErrInvalidTarget.
func (e *Event) Target() (time.Time, error) {
	return countdown.ParseTarget(e.TargetDate, e.Location())
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
