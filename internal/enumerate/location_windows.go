// internal/enumerate/location_windows.go
package enumerate

// usbLocation is not implemented on Windows. Hub sub-port numbering there
// starts at one, which the topology resolver already accounts for, but
// recovering the location string itself needs SetupAPI property queries
// the serial enumerator does not expose.
//
// TODO: query SPDRP_LOCATION_INFORMATION via golang.org/x/sys/windows
// setupapi so Windows hosts can resolve locations natively.
func usbLocation(device string) (string, error) {
	return "", nil
}
