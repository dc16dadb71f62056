// internal/enumerate/location_other.go
//go:build !linux && !windows

package enumerate

// usbLocation is not implemented on this platform; ports are still listed
// but can never match a channel pattern.
func usbLocation(device string) (string, error) {
	return "", nil
}
