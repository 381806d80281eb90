// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package display

import "errors"

var (
	// ErrElementNotFound indicates a write to an element the surface does not have.
	ErrElementNotFound = errors.New("display element not found")
)
