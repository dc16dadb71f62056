// internal/model/verdict.go
package model

import "time"

// Verdict classifies the outcome of probing one logical channel.
type Verdict string

const (
	VerdictPass           Verdict = "PASS"
	VerdictFail           Verdict = "FAIL"
	VerdictNotMapped      Verdict = "NOT_MAPPED"
	VerdictNotImplemented Verdict = "NOT_IMPLEMENTED"
)

// ChannelResult is the verification outcome for one channel.
type ChannelResult struct {
	Channel  Channel       `json:"channel"`
	Device   *string       `json:"device"`
	Verdict  Verdict       `json:"verdict"`
	Response string        `json:"response,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates one verification run over all six channels.
// Eligible counts channels that are both mapped and have an implemented
// test; NotMapped and NotImplemented channels stay out of the denominator.
type Report struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Results   []ChannelResult `json:"results"`
	Passed    int             `json:"passed"`
	Eligible  int             `json:"eligible"`
}
