// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"fmt"
	"unicode/utf8"
)

// MaxNameLength is the longest participant name, in runes, a flick may carry.
const MaxNameLength = 64

// ValidateName reports whether name can receive flicks. Errors wrap ErrInvalidName.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("%w: %d runes, at most %d", ErrInvalidName, n, MaxNameLength)
	}
	return nil
}
