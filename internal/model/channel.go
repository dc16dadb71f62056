// internal/model/channel.go
package model

// Channel identifies one of the logical UART roles a VCU debug board exposes.
// The role is fixed by board wiring; the OS device name that carries it is not.
type Channel string

const (
	ChannelHPA     Channel = "HPA"     // high priority application core
	ChannelHIA     Channel = "HIA"     // high isolation A
	ChannelHIB     Channel = "HIB"     // high isolation B
	ChannelLPA     Channel = "LPA"     // low priority application core
	ChannelSGA     Channel = "SGA"     // signal gateway
	ChannelJumpers Channel = "JUMPERS" // jumper control line
)

// Channels lists every logical channel in assignment order. Mapping and
// verification both iterate in this order so runs are reproducible.
var Channels = []Channel{
	ChannelHPA,
	ChannelHIA,
	ChannelHIB,
	ChannelLPA,
	ChannelSGA,
	ChannelJumpers,
}

// IsValid reports whether c is one of the six known channels.
func (c Channel) IsValid() bool {
	for _, known := range Channels {
		if c == known {
			return true
		}
	}
	return false
}

// PortMap is the resolved channel-to-device mapping. Every key is always
// present in the serialized form; a nil value means the channel was not
// matched by any candidate port on the attached board revision.
type PortMap struct {
	HPA     *string `json:"HPA"`
	HIA     *string `json:"HIA"`
	HIB     *string `json:"HIB"`
	LPA     *string `json:"LPA"`
	SGA     *string `json:"SGA"`
	JUMPERS *string `json:"JUMPERS"`
}

// Device returns the device path assigned to a channel, if any.
func (m *PortMap) Device(c Channel) (string, bool) {
	slot := m.slot(c)
	if slot == nil || *slot == nil {
		return "", false
	}
	return **slot, true
}

// Set assigns a device path to a channel. It reports false for unknown
// channel names and leaves the map untouched.
func (m *PortMap) Set(c Channel, device string) bool {
	slot := m.slot(c)
	if slot == nil {
		return false
	}
	*slot = &device
	return true
}

// MappedCount returns the number of channels with an assigned device.
func (m *PortMap) MappedCount() int {
	count := 0
	for _, c := range Channels {
		if _, ok := m.Device(c); ok {
			count++
		}
	}
	return count
}

// Empty reports whether no channel at all was mapped, the signature of a
// missing or unsupported board.
func (m *PortMap) Empty() bool {
	return m.MappedCount() == 0
}

func (m *PortMap) slot(c Channel) **string {
	switch c {
	case ChannelHPA:
		return &m.HPA
	case ChannelHIA:
		return &m.HIA
	case ChannelHIB:
		return &m.HIB
	case ChannelLPA:
		return &m.LPA
	case ChannelSGA:
		return &m.SGA
	case ChannelJumpers:
		return &m.JUMPERS
	default:
		return nil
	}
}
