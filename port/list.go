package port

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// serialPatterns match communication-capable serial devices under /dev
var serialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
	regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
	regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
	regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
	regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
	regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
	regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
	regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
}

// excludePatterns filter out virtual terminals and pseudo-terminals
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^tty\d+$`),
	regexp.MustCompile(`^console$`),
	regexp.MustCompile(`^ptmx$`),
	regexp.MustCompile(`^pty.*$`),
	regexp.MustCompile(`^pts/.*$`),
}

// ListPorts returns the available serial ports on the system, sorted.
// Only communication-capable character devices are included.
func ListPorts() ([]string, error) {
	entries, err := os.ReadDir("/dev")
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		name := entry.Name()

		excluded := false
		for _, pattern := range excludePatterns {
			if pattern.MatchString(name) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		matched := false
		for _, pattern := range serialPatterns {
			if pattern.MatchString(name) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		fullPath := filepath.Join("/dev", name)
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo holds detailed information about a serial port
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	VendorID     string
	ProductID    string
	SerialNumber string
	BusNumber    string
	DeviceNumber string
}

// GetPortInfo returns detailed information about a specific port,
// including USB metadata from sysfs for USB-attached devices
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: portDescription(name),
	}

	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		enrichUSBInfo(info, sysfsUSBDir(name))
	}

	return info, nil
}

// portDescription provides human-readable descriptions for port types
func portDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// sysfsUSBDir locates the USB device directory for a tty by walking up
// from /sys/class/tty/<name>/device until a directory with an idVendor
// file is found
func sysfsUSBDir(name string) string {
	dir, err := filepath.EvalSymlinks(filepath.Join("/sys/class/tty", name, "device"))
	if err != nil {
		return ""
	}

	// ttyUSB sits two levels below the USB device, ttyACM one level
	for i := 0; i < 4; i++ {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err == nil {
			return dir
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// enrichUSBInfo fills in USB metadata from a sysfs USB device directory
func enrichUSBInfo(info *PortInfo, dir string) {
	if dir == "" {
		return
	}

	info.VendorID = readSysfsFile(filepath.Join(dir, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(dir, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(dir, "serial"))
	info.BusNumber = readSysfsFile(filepath.Join(dir, "busnum"))
	info.DeviceNumber = readSysfsFile(filepath.Join(dir, "devnum"))

	if product := readSysfsFile(filepath.Join(dir, "product")); product != "" {
		info.Description = product
	}
}

// readSysfsFile reads a single-value sysfs attribute, returning an empty
// string when the attribute is missing
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
