//go:build !linux || !cgo

package serialdev

import (
	"go.bug.st/serial/enumerator"
)

func enumerate() ([]PortInfo, error) {
	list, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	var ports []PortInfo
	for _, p := range list {
		if !p.IsUSB {
			continue
		}
		ports = append(ports, PortInfo{Name: p.Name, Description: p.Product,
			VID: p.VID, PID: p.PID, Serial: p.SerialNumber})
	}
	return ports, nil
}
