//go:build linux

package rt

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/stronnag/elrsplay/pkg/options"
)

// Enable locks the calling goroutine to its thread, moves that thread to
// SCHED_FIFO at prio and locks memory. Failures are logged and reported,
// never fatal; the returned function undoes whatever succeeded.
func Enable(prio int) (func(), bool) {
	runtime.LockOSThread()
	ok := true
	fifo := false
	attr := unix.SchedAttr{Size: unix.SizeofSchedAttr, Policy: unix.SCHED_FIFO, Priority: uint32(prio)}
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		options.Logf(options.LOG_WARN, "realtime: SCHED_FIFO(%d) unavailable: %v\n", prio, err)
		ok = false
	} else {
		fifo = true
		options.Logf(options.LOG_DEBUG, "realtime: SCHED_FIFO priority %d\n", prio)
	}
	locked := true
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		options.Logf(options.LOG_WARN, "realtime: mlockall: %v\n", err)
		ok = false
		locked = false
	}
	return func() {
		if fifo {
			attr := unix.SchedAttr{Size: unix.SizeofSchedAttr, Policy: unix.SCHED_NORMAL}
			unix.SchedSetAttr(0, &attr, 0)
		}
		if locked {
			unix.Munlockall()
		}
		runtime.UnlockOSThread()
	}, ok
}
