package ports

import (
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// AnimationHandle identifies one running animation.
type AnimationHandle uint64

// AnimationDriver starts animations whose completion is reported on the UI thread.
// Stop halts an animation synchronously; it must not invoke the finish callback.
type AnimationDriver interface {
	Animate(opts domain.AnimationOptions, body func(), onFinish func()) AnimationHandle
	Stop(h AnimationHandle)
}

// CancelFunc cancels a delayed task. It is a no-op once the task ran.
type CancelFunc func()

// Scheduler posts deferred work on the frame pipeline. All tasks run on the
// same thread as the caller of the engine's public methods.
type Scheduler interface {
	Post(task func())
	PostDelayed(d time.Duration, task func()) CancelFunc
}
