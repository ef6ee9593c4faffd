package safety

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

const sigmsg = "\nReceived signal, initiating emergency stop...\n"

var (
	shutdown atomic.Bool
	current  atomic.Pointer[Supervisor]
	sigchan  chan os.Signal
	sigdone  chan struct{}
)

// InstallSignalHandler arranges for SIGINT and SIGTERM to request shutdown
// and emergency stop s. s may be nil.
func InstallSignalHandler(s *Supervisor) {
	Uninstall()
	shutdown.Store(false)
	current.Store(s)
	sigchan = make(chan os.Signal, 1)
	sigdone = make(chan struct{})
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	go func(c chan os.Signal, done chan struct{}) {
		for {
			select {
			case <-c:
				RequestShutdown()
				os.Stderr.WriteString(sigmsg)
			case <-done:
				return
			}
		}
	}(sigchan, sigdone)
}

// RequestShutdown has the same effect as a termination signal.
func RequestShutdown() {
	shutdown.Store(true)
	if s := current.Load(); s != nil {
		s.EmergencyStop()
	}
}

func ShutdownRequested() bool {
	return shutdown.Load()
}

// Uninstall restores default signal handling and forgets the supervisor.
func Uninstall() {
	if sigchan != nil {
		signal.Stop(sigchan)
		close(sigdone)
		sigchan = nil
	}
	current.Store(nil)
}
