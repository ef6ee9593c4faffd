//go:build linux && cgo

package serialdev

import (
	"github.com/jochenvg/go-udev"
)

func enumerate() ([]PortInfo, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	e.AddMatchSubsystem("tty")
	e.AddMatchProperty("ID_BUS", "usb")
	devices, err := e.Devices()
	if err != nil {
		return nil, err
	}
	var ports []PortInfo
	for _, d := range devices {
		dp := d.Properties()
		if dp["DEVNAME"] == "" {
			continue
		}
		ports = append(ports, PortInfo{
			Name:        dp["DEVNAME"],
			Description: dp["ID_USB_MODEL"],
			VID:         dp["ID_VENDOR_ID"],
			PID:         dp["ID_MODEL_ID"],
			Serial:      dp["ID_SERIAL_SHORT"],
		})
	}
	return ports, nil
}
