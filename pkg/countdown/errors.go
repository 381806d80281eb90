// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import "errors"

var (
	// ErrInvalidTarget indicates a missing or unparsable target instant.
	ErrInvalidTarget = errors.New("invalid countdown target")

	// ErrInvalidInterval indicates a non-positive tick interval.
	ErrInvalidInterval = errors.New("invalid countdown interval")

	// ErrAlreadyStarted indicates Start on an engine that is already running.
	ErrAlreadyStarted = errors.New("countdown already started")
)
