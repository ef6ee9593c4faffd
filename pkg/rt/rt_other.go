//go:build !linux

package rt

import (
	"github.com/stronnag/elrsplay/pkg/options"
)

func Enable(prio int) (func(), bool) {
	options.Logf(options.LOG_DEBUG, "realtime: not supported on this platform\n")
	return func() {}, false
}
