package usbfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Roots of the sysfs and devfs trees. Tests point these at fixtures.
var (
	SysfsRoot = "/sys/bus/usb/devices"
	DevfsRoot = "/dev/bus/usb"
)

// DeviceInfo describes a USB device found in sysfs.
type DeviceInfo struct {
	Path         string
	SysfsPath    string
	Bus          int
	Address      int
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
	Serial       string
	Speed        string
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%03d:%03d %04x:%04x %s %s", d.Bus, d.Address, d.VendorID, d.ProductID, d.Product, d.Serial)
}

// List returns every USB device in sysfs.
func List() ([]DeviceInfo, error) {
	entries, err := os.ReadDir(SysfsRoot)
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	for _, entry := range entries {
		name := entry.Name()
		// Root hubs are usbN, interfaces are N-N:C.I
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		info, err := readDevice(filepath.Join(SysfsRoot, name))
		if err != nil {
			continue
		}
		devices = append(devices, info)
	}
	return devices, nil
}

// Find returns the devices matching vendor and product.
func Find(vendor, product uint16) ([]DeviceInfo, error) {
	all, err := List()
	if err != nil {
		return nil, err
	}
	var found []DeviceInfo
	for _, d := range all {
		if d.VendorID == vendor && d.ProductID == product {
			found = append(found, d)
		}
	}
	return found, nil
}

func readDevice(dir string) (DeviceInfo, error) {
	info := DeviceInfo{SysfsPath: dir}

	bus, err := readInt(dir, "busnum", 10)
	if err != nil {
		return info, err
	}
	addr, err := readInt(dir, "devnum", 10)
	if err != nil {
		return info, err
	}
	vid, err := readInt(dir, "idVendor", 16)
	if err != nil {
		return info, err
	}
	pid, err := readInt(dir, "idProduct", 16)
	if err != nil {
		return info, err
	}

	info.Bus = int(bus)
	info.Address = int(addr)
	info.VendorID = uint16(vid)
	info.ProductID = uint16(pid)
	info.Path = filepath.Join(DevfsRoot, fmt.Sprintf("%03d", bus), fmt.Sprintf("%03d", addr))
	info.Manufacturer, _ = readString(dir, "manufacturer")
	info.Product, _ = readString(dir, "product")
	info.Serial, _ = readString(dir, "serial")
	info.Speed, _ = readString(dir, "speed")
	return info, nil
}

func readString(dir, attr string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func readInt(dir, attr string, base int) (uint64, error) {
	s, err := readString(dir, attr)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("%s/%s: %w", dir, attr, err)
	}
	return v, nil
}
