// internal/enumerate/location_linux.go
package enumerate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const sysfsTTYRoot = "/sys/class/tty"

// interfacePattern matches a sysfs USB interface directory name such as
// "1-1.4:1.0": bus, port chain, configuration and interface number.
var interfacePattern = regexp.MustCompile(`^\d+-[\d.]+:\d+\.\d+$`)

// usbLocation resolves the USB topology location of a tty device from
// sysfs; the kernel names the interface directory after the hub chain.
func usbLocation(device string) (string, error) {
	return locationFromSysfs(sysfsTTYRoot, device)
}

// locationFromSysfs walks the resolved device symlink of root/<tty>/device
// and returns the last path component naming a USB interface directory.
// ttyUSB nodes hang one level below the interface, ttyACM nodes are the
// interface itself; scanning the whole path covers both.
func locationFromSysfs(root, device string) (string, error) {
	name := filepath.Base(device)
	link := filepath.Join(root, name, "device")

	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", fmt.Errorf("failed to resolve sysfs device link for %s: %w", name, err)
	}

	parts := strings.Split(resolved, string(filepath.Separator))
	for i := len(parts) - 1; i >= 0; i-- {
		if interfacePattern.MatchString(parts[i]) {
			return parts[i], nil
		}
	}
	return "", fmt.Errorf("no USB interface component in sysfs path %s", resolved)
}
