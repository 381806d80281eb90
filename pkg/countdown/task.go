// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"sync"
	"time"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/jonboulle/clockwork"
)

// Task runs a function on a fixed interval until stopped. Runs are
// strictly sequential.
type Task struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Every starts a task calling fn every interval on clock. A panic in fn
// is logged and the task keeps running.
func Every(clock clockwork.Clock, interval time.Duration, fn func()) *Task {
	t := &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	ticker := clock.NewTicker(interval)
	go func() {
		defer close(t.done)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			default:
			}

			select {
			case <-t.stop:
				return
			case <-ticker.Chan():
				run(fn)
			}
		}
	}()

	return t
}

func run(fn func()) {
	defer common.Recover("countdown task")
	fn()
}

// Stop cancels the task. It is safe to call more than once and from
// inside fn; it does not wait for a running fn to return.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
