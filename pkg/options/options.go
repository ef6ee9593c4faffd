package options

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/shlex"
)

const ENV_OPTS = "ELRSPLAY_OPTS"

var Config struct {
	ConfigFile string
	Device     string
	Gpio       int
	Baudrate   int
	Level      int
	Verbose    bool
	Quiet      bool
	Version    bool
	NoRealtime bool
	LogFile    string
}

// names of global options given in $ELRSPLAY_OPTS
var envset = map[string]bool{}

var Commands = []struct {
	Name string
	Desc string
}{
	{"play", "replay a channel history to the TX module"},
	{"validate", "check a history file"},
	{"ping", "ping the TX module"},
	{"info", "query TX module device information"},
	{"send", "send fixed channel values"},
	{"gpio", "list GPIO to UART mappings"},
	{"convert", "convert a history file between csv, json and sqlite"},
}

func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, n := range names {
			if f.Name == n {
				found = true
			}
		}
	})
	return found
}

// long name to its single letter alias
var aliases = map[string]string{
	"config":   "c",
	"device":   "d",
	"gpio":     "g",
	"baudrate": "b",
	"verbose":  "v",
	"quiet":    "q",
}

// IsSet reports whether the global option name was given on the command
// line or in $ELRSPLAY_OPTS, and so takes precedence over a config file.
func IsSet(name string) bool {
	if envset[name] {
		return true
	}
	return isFlagSet(flag.CommandLine, name, aliases[name])
}

func Usage() {
	flag.Usage()
}

func register(fs *flag.FlagSet) {
	fs.StringVar(&Config.ConfigFile, "config", Config.ConfigFile, "Configuration file (json, toml, yaml)")
	fs.StringVar(&Config.ConfigFile, "c", Config.ConfigFile, "Configuration file (shorthand)")
	fs.StringVar(&Config.Device, "device", Config.Device, "Serial device (path or USB description)")
	fs.StringVar(&Config.Device, "d", Config.Device, "Serial device (shorthand)")
	fs.IntVar(&Config.Gpio, "gpio", Config.Gpio, "GPIO TX pin, selects the UART device")
	fs.IntVar(&Config.Gpio, "g", Config.Gpio, "GPIO TX pin (shorthand)")
	fs.IntVar(&Config.Baudrate, "baudrate", Config.Baudrate, "Serial baud rate")
	fs.IntVar(&Config.Baudrate, "b", Config.Baudrate, "Serial baud rate (shorthand)")
	fs.BoolVar(&Config.Verbose, "verbose", Config.Verbose, "Debug output")
	fs.BoolVar(&Config.Verbose, "v", Config.Verbose, "Debug output (shorthand)")
	fs.BoolVar(&Config.Quiet, "quiet", Config.Quiet, "Errors only")
	fs.BoolVar(&Config.Quiet, "q", Config.Quiet, "Errors only (shorthand)")
	fs.BoolVar(&Config.NoRealtime, "no-realtime", Config.NoRealtime, "Don't request realtime scheduling")
	fs.StringVar(&Config.LogFile, "log-file", Config.LogFile, "Also log to file")
}

func reset() {
	Config.ConfigFile = ""
	Config.Device = ""
	Config.Gpio = -1
	Config.Baudrate = 0
	Config.Level = LOG_INFO
	Config.Verbose = false
	Config.Quiet = false
	Config.Version = false
	Config.NoRealtime = false
	Config.LogFile = ""
	envset = map[string]bool{}
}

// ParseCLI parses the global options, first from $ELRSPLAY_OPTS and then
// from the command line, returning the sub-command and its arguments.
func ParseCLI(gv func() string) ([]string, error) {
	reset()
	app := filepath.Base(os.Args[0])

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s [options] command [command options]\n", app)
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nCommands:")
		for _, c := range Commands {
			fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.Name, c.Desc)
		}
		fmt.Fprintf(os.Stderr, "\n%s -help for command options\n", app+" command")
		fmt.Fprintln(os.Stderr, gv())
	}

	if defs := os.Getenv(ENV_OPTS); defs != "" {
		parts, err := shlex.Split(defs)
		if err != nil {
			return nil, fmt.Errorf("$%s: %w", ENV_OPTS, err)
		}
		envflags := flag.NewFlagSet("$"+ENV_OPTS, flag.ContinueOnError)
		register(envflags)
		if err := envflags.Parse(parts); err != nil {
			return nil, fmt.Errorf("$%s: %w", ENV_OPTS, err)
		}
		envflags.Visit(func(f *flag.Flag) {
			envset[f.Name] = true
			for k, v := range aliases {
				if v == f.Name {
					envset[k] = true
				}
			}
		})
	}

	register(flag.CommandLine)
	flag.BoolVar(&Config.Version, "version", false, "Show version and exit")
	flag.Parse()

	switch {
	case Config.Quiet:
		Config.Level = LOG_ERROR
	case Config.Verbose:
		Config.Level = LOG_DEBUG
	}
	return flag.Args(), nil
}
