// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"fmt"
	"runtime/debug"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Pad formats n with at least two digits.
func Pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Recover logs a panic raised inside a background callback so the
// remaining goroutines keep running. Use it as `defer common.Recover("name")`.
func Recover(where string) {
	if r := recover(); r != nil {
		logrus.WithField("where", where).Errorf("recovered from panic: %v\n%s", r, debug.Stack())
	}
}
