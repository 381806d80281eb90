// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// BackendConfig selects and parameterizes a backing policy.
type BackendConfig struct {
	Type       string
	Namespace  string
	Parameters map[string]interface{}
}

// String returns a parameter as string, or fallback when absent.
func (c BackendConfig) String(key, fallback string) string {
	if v, ok := c.Parameters[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// Value returns a raw parameter.
func (c BackendConfig) Value(key string) (interface{}, bool) {
	v, ok := c.Parameters[key]
	return v, ok
}

// BackendFactory creates a backend from its configuration.
type BackendFactory func(ctx context.Context, config BackendConfig) (Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]BackendFactory)
)

// RegisterBackendType registers a factory for a backend type.
func RegisterBackendType(backendType string, factory BackendFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[backendType] = factory
	logrus.Debugf("registered score backend type: %s", backendType)
}

// BackendTypes returns the registered backend types, sorted.
func BackendTypes() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CreateBackend creates a backend for config.Type.
func CreateBackend(ctx context.Context, config BackendConfig) (Backend, error) {
	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, config.Type)
	}

	logrus.Infof("creating score backend: type=%s, namespace=%s", config.Type, config.Namespace)
	return factory(ctx, config)
}

func init() {
	RegisterBackendType(MemoryBackendType, func(ctx context.Context, config BackendConfig) (Backend, error) {
		return NewMemoryBackend(), nil
	})
	RegisterBackendType(SQLiteBackendType, func(ctx context.Context, config BackendConfig) (Backend, error) {
		return OpenSQLiteBackend(ctx, SQLiteBackendConfig{
			Path:      config.String("path", "flick.db"),
			Namespace: config.Namespace,
		})
	})
}
