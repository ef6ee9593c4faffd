package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/stronnag/elrsplay/pkg/gpio"
	"github.com/stronnag/elrsplay/pkg/serialdev"
)

func (a *app) cmdGpio(args []string) error {
	var ports bool
	fs := newFlagSet("gpio")
	fs.BoolVar(&ports, "ports", false, "Also list detected USB serial ports")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	fmt.Fprint(a.out, "Available UART-GPIO mappings (Raspberry Pi 4/5):\n\n")
	tw := tabwriter.NewWriter(a.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "  UART\tGPIO TX\tGPIO RX\tDevice\tDescription")
	fmt.Fprintln(tw, "  ----\t-------\t-------\t------\t-----------")
	for _, m := range gpio.Available() {
		fmt.Fprintf(tw, "  UART%d\t%d\t%d\t%s\t%s\n", m.Uart, m.TxPin, m.RxPin, m.Device, m.Description)
	}
	tw.Flush()

	fmt.Fprintln(a.out, "\nNote:")
	for _, n := range gpio.Notes {
		fmt.Fprintf(a.out, "  - %s\n", n)
	}

	if cur := serialdev.Canonical(a.cfg.Device.Port); cur != "" {
		if m, ok := gpio.FindByDevice(cur); ok {
			fmt.Fprintf(a.out, "\nConfigured device %s is UART%d (GPIO%d/%d)\n", a.cfg.Device.Port, m.Uart, m.TxPin, m.RxPin)
		}
	}

	if ports {
		pl, err := serialdev.Enumerate()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "\nUSB serial ports:")
		if len(pl) == 0 {
			fmt.Fprintln(a.out, "  none")
		}
		for _, p := range pl {
			fmt.Fprintf(a.out, "  %s\t%s [%s:%s] %s\n", p.Name, p.Description, p.VID, p.PID, p.Serial)
		}
	}
	return nil
}
