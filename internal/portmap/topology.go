// internal/portmap/topology.go
package portmap

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// BoardTopology is the physical wiring variant of the attached board,
// derived from how many distinct hub chips the candidate ports sit behind.
type BoardTopology string

const (
	TopologyNone      BoardTopology = "NONE"       // no supported board attached
	TopologySingleHub BoardTopology = "SINGLE_HUB" // one quad-UART hub chip
	TopologyDualHub   BoardTopology = "DUAL_HUB"   // two quad-UART hub chips
)

// MajorNumbers extracts the distinct hub identifiers (the location substring
// before the first ':') from the candidate ports, ascending and deduplicated.
// Ports without a location contribute nothing. The result is sorted so the
// same port set always yields the same sequence, whatever the map iteration
// order was internally.
func MajorNumbers(ports []model.CandidatePort) []string {
	seen := make(map[string]struct{})
	for _, port := range ports {
		if port.Location == "" {
			continue
		}
		major, _, _ := strings.Cut(port.Location, ":")
		seen[major] = struct{}{}
	}

	majors := make([]string, 0, len(seen))
	for major := range seen {
		majors = append(majors, major)
	}
	sort.Strings(majors)
	return majors
}

// Topology classifies a major-number set. Sets larger than two are treated
// as dual hub; the extra identifiers are ignored by ResolvePatterns.
func Topology(majors []string) BoardTopology {
	switch len(majors) {
	case 0:
		return TopologyNone
	case 1:
		return TopologySingleHub
	default:
		return TopologyDualHub
	}
}

// PatternEntry binds one channel to its location-matching rule. A nil
// Pattern means the channel does not exist on the resolved topology.
type PatternEntry struct {
	Channel model.Channel
	Pattern *regexp.Regexp
}

// PatternTable holds one entry per channel in assignment order.
type PatternTable []PatternEntry

// Pattern returns the rule for a channel, or nil when the channel is absent
// from the table or carries no rule.
func (t PatternTable) Pattern(c model.Channel) *regexp.Regexp {
	for _, entry := range t {
		if entry.Channel == c {
			return entry.Pattern
		}
	}
	return nil
}

// ResolvePatterns builds the channel pattern table for the observed hub
// identifiers. The shifted flag accounts for hosts that number hub
// sub-ports from one instead of zero (Windows); every effective index is
// the wiring offset plus that base.
//
// Dual-hub boards route HPA/LPA/HIB/HIA through the first chip and
// SGA/JUMPERS through the second. Single-hub board revisions lack the
// second chip, carry the four channels in a different interface order,
// and have no SGA or JUMPERS lines at all.
func ResolvePatterns(majors []string, shifted bool) PatternTable {
	base := 0
	if shifted {
		base = 1
	}

	switch Topology(majors) {
	case TopologyDualHub:
		hubA, hubB := majors[0], majors[1]
		return PatternTable{
			{model.ChannelHPA, locationPattern(hubA, base+0)},
			{model.ChannelHIA, locationPattern(hubA, base+3)},
			{model.ChannelHIB, locationPattern(hubA, base+2)},
			{model.ChannelLPA, locationPattern(hubA, base+1)},
			{model.ChannelSGA, locationPattern(hubB, base+0)},
			{model.ChannelJumpers, locationPattern(hubB, base+1)},
		}
	case TopologySingleHub:
		hub := majors[0]
		return PatternTable{
			{model.ChannelHPA, locationPattern(hub, base+2)},
			{model.ChannelHIA, locationPattern(hub, base+0)},
			{model.ChannelHIB, locationPattern(hub, base+1)},
			{model.ChannelLPA, locationPattern(hub, base+3)},
			{model.ChannelSGA, nil},
			{model.ChannelJumpers, nil},
		}
	default:
		table := make(PatternTable, 0, len(model.Channels))
		for _, c := range model.Channels {
			table = append(table, PatternEntry{Channel: c})
		}
		return table
	}
}

// locationPattern matches a location path ending in hub identifier, the
// topology separator, the configuration descriptor and the effective
// interface index, e.g. "1-1.4:1.2".
func locationPattern(major string, index int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^.*%s:1\.%d`, regexp.QuoteMeta(major), index))
}
