// internal/verify/expectation.go
package verify

import (
	"regexp"
	"strings"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// Expectation describes how to probe one channel and judge its response:
// the command sent (a carriage return is appended on the wire) and either
// a substring the response must contain or a pattern it must match.
// Pattern matching covers endpoints whose greeting embeds a variable
// identifier, like the SGA login banner.
type Expectation struct {
	Command  string
	Contains string
	Pattern  *regexp.Regexp
}

// Matches reports whether a response satisfies the expectation.
func (e Expectation) Matches(response string) bool {
	if response == "" {
		return false
	}
	if e.Pattern != nil {
		return e.Pattern.MatchString(response)
	}
	return strings.Contains(response, e.Contains)
}

// expectations is the per-channel probe table. Adding a channel type is a
// data change here, not new classification logic. JUMPERS is deliberately
// absent: no electrical test exists for that line, so the engine reports
// NotImplemented without probing.
var expectations = map[model.Channel]Expectation{
	model.ChannelHPA: {Command: "uname -a", Contains: "QNX hpa"},
	model.ChannelHIA: {Command: "", Contains: "GoForHIA>"},
	model.ChannelHIB: {Command: "", Contains: "GoForHIB>"},
	model.ChannelLPA: {Command: "", Contains: "Atmel LP->"},
	model.ChannelSGA: {Command: "", Pattern: regexp.MustCompile(`DoIP-.* login:`)},
}

// expectationFor returns the probe expectation for a channel, if one exists.
func expectationFor(c model.Channel) (Expectation, bool) {
	e, ok := expectations[c]
	return e, ok
}
