// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import "errors"

var (
	// ErrUnknownBackend indicates a backend type with no registered factory.
	ErrUnknownBackend = errors.New("unknown score backend type")

	// ErrInvalidConfig indicates that a backend's configuration is invalid.
	ErrInvalidConfig = errors.New("invalid score backend configuration")

	// ErrInvalidValue indicates a stored score that is not a non-negative integer.
	ErrInvalidValue = errors.New("invalid stored score value")

	// ErrInvalidName indicates an empty or overlong participant name.
	ErrInvalidName = errors.New("invalid participant name")

	// ErrClosed indicates use of a backend after Close.
	ErrClosed = errors.New("score backend closed")
)
