package port

import (
	"fmt"
	"os/exec"
	"time"
)

// usbEnumerationDelay is how long to wait after a reset for the device to
// re-enumerate before returning
const usbEnumerationDelay = 2 * time.Second

// IsUSBResetAvailable checks if the usbreset utility (from usbutils) is
// available in PATH
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath("usbreset")
	return err == nil
}

// ResetUSBDevice performs a USB-level reset of the adapter behind a port.
// This can recover a serial adapter that has wedged mid-test without
// physically unplugging it. Requires the usbreset utility and appropriate
// permissions; the port path may change after re-enumeration.
func ResetUSBDevice(portPath string) error {
	info, err := GetPortInfo(portPath)
	if err != nil {
		return fmt.Errorf("failed to get port info: %w", err)
	}

	if info.BusNumber == "" || info.DeviceNumber == "" {
		return ErrUSBInfoNotAvailable
	}
	if !IsUSBResetAvailable() {
		return ErrUSBResetNotAvailable
	}

	// usbreset expects zero-padded 3-digit bus and device numbers
	usbPath := fmt.Sprintf("%03s/%03s", info.BusNumber, info.DeviceNumber)

	cmd := exec.Command("usbreset", usbPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	time.Sleep(usbEnumerationDelay)
	return nil
}

// ResetUSBDeviceBySerial resets a USB device identified by its serial
// number, which survives re-enumeration when multiple adapters are
// connected
func ResetUSBDeviceBySerial(serialNumber string) error {
	ports, err := ListPorts()
	if err != nil {
		return err
	}

	for _, portPath := range ports {
		info, err := GetPortInfo(portPath)
		if err != nil {
			continue
		}
		if info.SerialNumber == serialNumber {
			return ResetUSBDevice(portPath)
		}
	}

	return fmt.Errorf("device with serial %s not found", serialNumber)
}
