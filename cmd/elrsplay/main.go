package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/config"
	"github.com/stronnag/elrsplay/pkg/gpio"
	"github.com/stronnag/elrsplay/pkg/options"
)

var GitCommit = "local"
var GitTag = "0.0.0"

func getVersion() string {
	return fmt.Sprintf("%s %s, commit: %s", filepath.Base(os.Args[0]), GitTag, GitCommit)
}

// loadConfig reads the -config file, else the per-user default if there
// is one, else returns the built in defaults.
func loadConfig() (*config.Config, error) {
	fn := options.Config.ConfigFile
	if fn == "" {
		fn = config.FindDefault()
	}
	if fn == "" {
		return config.Default(), nil
	}
	options.Logf(options.LOG_DEBUG, "Using config %s\n", fn)
	return config.Load(fn)
}

// applyOverrides gives options from the environment and command line
// precedence over the config file.
func applyOverrides(cfg *config.Config) {
	if options.IsSet("device") {
		cfg.Device.Port = gpio.ResolveDevicePath(options.Config.Device)
	}
	if options.IsSet("gpio") && options.Config.Gpio >= 0 {
		cfg.Device.GpioTx = options.Config.Gpio
		cfg.Device.Port = gpio.ResolveDevicePath(fmt.Sprintf("%d", options.Config.Gpio))
	}
	if options.IsSet("baudrate") && options.Config.Baudrate > 0 {
		cfg.Device.Baudrate = options.Config.Baudrate
	}
	if options.IsSet("log-file") {
		cfg.Logging.File = options.Config.LogFile
	}
	if options.Config.NoRealtime {
		cfg.Scheduling.Realtime = false
	}
	switch {
	case options.Config.Quiet:
		options.Config.Level = options.LOG_ERROR
	case options.Config.Verbose:
		options.Config.Level = options.LOG_DEBUG
	default:
		if l, err := options.ParseLevel(cfg.Logging.Level); err == nil {
			options.Config.Level = l
		}
	}
}

func run() int {
	args, err := options.ParseCLI(getVersion)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(types.ErrArgument)
	}
	if options.Config.Version {
		fmt.Println(getVersion())
		return 0
	}

	options.SetupLogging("")
	cfg, err := loadConfig()
	if err != nil {
		log.Printf("Error loading config: %v\n", err)
		return types.ExitCode(err)
	}
	applyOverrides(cfg)
	lf, err := options.SetupLogging(cfg.Logging.File)
	if err != nil {
		log.Printf("log file: %v\n", err)
		return int(types.ErrConfig)
	}
	defer lf.Close()

	if len(args) == 0 {
		options.Usage()
		return int(types.ErrArgument)
	}

	a := newApp(cfg, os.Stdout)
	err = a.dispatch(args[0], args[1:])
	if err != nil && types.KindOf(err) != types.ErrNone && err != errInterrupted {
		log.Printf("%s: %v\n", args[0], err)
	}
	return types.ExitCode(err)
}

func main() {
	os.Exit(run())
}
