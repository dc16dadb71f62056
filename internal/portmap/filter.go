// internal/portmap/filter.go
package portmap

import (
	"sort"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// Partition splits candidate ports into those matching the board's USB
// vendor/product identity and the rest. Ports are stable-sorted by device
// path first so downstream first-match assignment is deterministic
// regardless of enumeration order. Ports without a location string stay in
// the valid set; they never match a channel pattern but are kept so debug
// dumps show the full picture.
func Partition(ports []model.CandidatePort, vendorID, productID int) (valid, invalid []model.CandidatePort) {
	sorted := make([]model.CandidatePort, len(ports))
	copy(sorted, ports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Device < sorted[j].Device
	})

	for _, port := range sorted {
		if port.VendorID == vendorID && port.ProductID == productID {
			valid = append(valid, port)
		} else {
			invalid = append(invalid, port)
		}
	}
	return valid, invalid
}
