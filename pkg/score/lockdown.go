// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import "sync/atomic"

// Lockdown is a one-way flag; once engaged, scores no longer change.
type Lockdown struct {
	engaged atomic.Bool
}

// Engage sets the flag. It reports whether this call changed it.
func (l *Lockdown) Engage() bool {
	return l.engaged.CompareAndSwap(false, true)
}

// Engaged reports whether scores are locked.
func (l *Lockdown) Engaged() bool {
	return l.engaged.Load()
}
