// internal/model/port.go
package model

// CandidatePort is an immutable snapshot of one enumerated serial port.
// Location carries the USB topology path in "hub:config.interface" form
// (for example "1-1.4:1.0"); it is empty when the enumeration backend
// cannot resolve it, in which case the port never matches any channel
// pattern but is still reported in debug dumps.
type CandidatePort struct {
	Device       string `json:"device"`
	Location     string `json:"location,omitempty"`
	VendorID     int    `json:"vendor_id"`
	ProductID    int    `json:"product_id"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
}
