package verify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/config"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// fakeTransport scripts one probe exchange.
type fakeTransport struct {
	response []byte
	openErr  error
	writeErr error
	readErr  error

	wrote  []byte
	opened bool
	closed bool
}

func (f *fakeTransport) Open(ctx context.Context) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func (f *fakeTransport) Write(ctx context.Context, data []byte) error {
	f.wrote = append(f.wrote, data...)
	return f.writeErr
}

func (f *fakeTransport) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if len(f.response) > maxBytes {
		return f.response[:maxBytes], nil
	}
	return f.response, nil
}

func probeConfig() *config.ProbeConfig {
	return &config.ProbeConfig{
		BaudRate:    115200,
		ReadTimeout: time.Second,
		ReadBuffer:  1024,
	}
}

func newTestEngine(transports map[string]*fakeTransport, dialErr error) *Engine {
	dial := func(device string) (Transport, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		if tr, ok := transports[device]; ok {
			return tr, nil
		}
		return &fakeTransport{}, nil
	}
	return NewEngine(probeConfig(), zap.NewNop(), dial)
}

func fullPortMap() *model.PortMap {
	var portMap model.PortMap
	devices := map[model.Channel]string{
		model.ChannelHPA:     "/dev/ttyUSB0",
		model.ChannelHIA:     "/dev/ttyUSB3",
		model.ChannelHIB:     "/dev/ttyUSB2",
		model.ChannelLPA:     "/dev/ttyUSB1",
		model.ChannelSGA:     "/dev/ttyUSB4",
		model.ChannelJumpers: "/dev/ttyUSB5",
	}
	for channel, device := range devices {
		portMap.Set(channel, device)
	}
	return &portMap
}

func resultFor(t *testing.T, report *model.Report, channel model.Channel) model.ChannelResult {
	t.Helper()
	for _, result := range report.Results {
		if result.Channel == channel {
			return result
		}
	}
	t.Fatalf("no result for channel %s", channel)
	return model.ChannelResult{}
}

func TestVerifyAllPassAndFail(t *testing.T) {
	transports := map[string]*fakeTransport{
		"/dev/ttyUSB0": {response: []byte("QNX hpa 7.1.0\n")},
		"/dev/ttyUSB1": {response: []byte("Atmel LP-> ")},
		"/dev/ttyUSB2": {response: []byte("GoForHIB> ")},
		"/dev/ttyUSB3": {}, // timeout: no bytes at all
		"/dev/ttyUSB4": {response: []byte("DoIP-77 login: ")},
	}
	engine := newTestEngine(transports, nil)

	report := engine.VerifyAll(context.Background(), fullPortMap())

	if got := resultFor(t, report, model.ChannelHPA).Verdict; got != model.VerdictPass {
		t.Errorf("HPA verdict = %s, want PASS", got)
	}
	if got := resultFor(t, report, model.ChannelHIA).Verdict; got != model.VerdictFail {
		t.Errorf("HIA verdict on empty response = %s, want FAIL", got)
	}
	if got := resultFor(t, report, model.ChannelSGA).Verdict; got != model.VerdictPass {
		t.Errorf("SGA verdict = %s, want PASS", got)
	}

	// HPA probe carries the interactive command plus carriage return.
	if wrote := string(transports["/dev/ttyUSB0"].wrote); wrote != "uname -a\r" {
		t.Errorf("HPA probe wrote %q, want \"uname -a\\r\"", wrote)
	}
	// Prompt channels send a bare carriage return.
	if wrote := string(transports["/dev/ttyUSB2"].wrote); wrote != "\r" {
		t.Errorf("HIB probe wrote %q, want \"\\r\"", wrote)
	}

	if report.Passed != 4 || report.Eligible != 5 {
		t.Errorf("summary = %d/%d, want 4/5", report.Passed, report.Eligible)
	}
}

func TestVerifyAllJumpersNeverProbed(t *testing.T) {
	jumpers := &fakeTransport{response: []byte("anything at all")}
	engine := newTestEngine(map[string]*fakeTransport{"/dev/ttyUSB5": jumpers}, nil)

	report := engine.VerifyAll(context.Background(), fullPortMap())

	result := resultFor(t, report, model.ChannelJumpers)
	if result.Verdict != model.VerdictNotImplemented {
		t.Errorf("JUMPERS verdict = %s, want NOT_IMPLEMENTED", result.Verdict)
	}
	if jumpers.opened || len(jumpers.wrote) > 0 {
		t.Errorf("JUMPERS was probed: opened=%v wrote=%q", jumpers.opened, jumpers.wrote)
	}
}

func TestVerifyAllUnmappedChannels(t *testing.T) {
	engine := newTestEngine(nil, nil)

	var portMap model.PortMap
	report := engine.VerifyAll(context.Background(), &portMap)

	for _, channel := range model.Channels {
		result := resultFor(t, report, channel)
		want := model.VerdictNotMapped
		if channel == model.ChannelJumpers {
			want = model.VerdictNotImplemented
		}
		if result.Verdict != want {
			t.Errorf("%s verdict = %s, want %s", channel, result.Verdict, want)
		}
	}
	if report.Eligible != 0 || report.Passed != 0 {
		t.Errorf("summary = %d/%d, want 0/0", report.Passed, report.Eligible)
	}
}

func TestVerifyAllTransportErrorsRecoverLocally(t *testing.T) {
	transports := map[string]*fakeTransport{
		"/dev/ttyUSB0": {openErr: errors.New("device disappeared")},
		"/dev/ttyUSB1": {writeErr: errors.New("write failed")},
		"/dev/ttyUSB2": {readErr: errors.New("read failed")},
		"/dev/ttyUSB3": {response: []byte("GoForHIA> ")},
		"/dev/ttyUSB4": {response: []byte("DoIP-1 login: ")},
	}
	engine := newTestEngine(transports, nil)

	report := engine.VerifyAll(context.Background(), fullPortMap())

	for _, channel := range []model.Channel{model.ChannelHPA, model.ChannelLPA, model.ChannelHIB} {
		result := resultFor(t, report, channel)
		if result.Verdict != model.VerdictFail {
			t.Errorf("%s verdict = %s, want FAIL", channel, result.Verdict)
		}
		if result.Error == "" {
			t.Errorf("%s: transport error not surfaced", channel)
		}
	}

	// The run continued past the failures.
	if got := resultFor(t, report, model.ChannelHIA).Verdict; got != model.VerdictPass {
		t.Errorf("HIA verdict after earlier failures = %s, want PASS", got)
	}
	if got := resultFor(t, report, model.ChannelSGA).Verdict; got != model.VerdictPass {
		t.Errorf("SGA verdict after earlier failures = %s, want PASS", got)
	}
}

func TestVerifyAllDialErrorIsFail(t *testing.T) {
	engine := newTestEngine(nil, errors.New("no such device"))

	report := engine.VerifyAll(context.Background(), fullPortMap())
	for _, channel := range []model.Channel{model.ChannelHPA, model.ChannelHIA, model.ChannelHIB, model.ChannelLPA, model.ChannelSGA} {
		if got := resultFor(t, report, channel).Verdict; got != model.VerdictFail {
			t.Errorf("%s verdict = %s, want FAIL", channel, got)
		}
	}
}

// Every channel gets exactly one verdict whatever the mapping state and
// transport outcome.
func TestVerifyAllVerdictTotality(t *testing.T) {
	outcomes := map[string]*fakeTransport{
		"pass":    {response: []byte("GoForHIA> GoForHIB> Atmel LP-> QNX hpa DoIP-x login:")},
		"empty":   {},
		"error":   {openErr: errors.New("boom")},
		"garbage": {response: []byte("\x00\xff\x13garbled")},
	}

	for name, transport := range outcomes {
		t.Run(name+" mapped", func(t *testing.T) {
			dial := func(device string) (Transport, error) { return transport, nil }
			engine := NewEngine(probeConfig(), zap.NewNop(), dial)
			report := engine.VerifyAll(context.Background(), fullPortMap())
			assertTotality(t, report)
		})
	}

	t.Run("unmapped", func(t *testing.T) {
		engine := newTestEngine(nil, nil)
		var portMap model.PortMap
		assertTotality(t, engine.VerifyAll(context.Background(), &portMap))
	})
}

func assertTotality(t *testing.T, report *model.Report) {
	t.Helper()
	if len(report.Results) != len(model.Channels) {
		t.Fatalf("report has %d results, want %d", len(report.Results), len(model.Channels))
	}
	for _, result := range report.Results {
		switch result.Verdict {
		case model.VerdictPass, model.VerdictFail, model.VerdictNotMapped, model.VerdictNotImplemented:
		default:
			t.Errorf("%s: unclassified verdict %q", result.Channel, result.Verdict)
		}
	}
}

func TestVerifyAllClosesTransportAfterEachChannel(t *testing.T) {
	transports := map[string]*fakeTransport{
		"/dev/ttyUSB0": {response: []byte("QNX hpa")},
		"/dev/ttyUSB2": {readErr: errors.New("read failed")},
	}
	engine := newTestEngine(transports, nil)

	engine.VerifyAll(context.Background(), fullPortMap())

	for device, transport := range transports {
		if !transport.closed {
			t.Errorf("%s: transport left open", device)
		}
	}
}

func TestVerifyChannelUnknownName(t *testing.T) {
	transport := &fakeTransport{response: []byte("QNX hpa")}
	engine := newTestEngine(map[string]*fakeTransport{"/dev/ttyUSB0": transport}, nil)

	result := engine.VerifyChannel(context.Background(), "BOGUS", fullPortMap())
	if result.Verdict != model.VerdictFail {
		t.Errorf("unknown channel verdict = %s, want FAIL", result.Verdict)
	}
	if transport.opened {
		t.Errorf("unknown channel was probed")
	}
}

func TestVerifyReportMetadata(t *testing.T) {
	engine := newTestEngine(nil, nil)
	var portMap model.PortMap
	report := engine.VerifyAll(context.Background(), &portMap)

	if strings.TrimSpace(report.RunID) == "" {
		t.Errorf("report has no run id")
	}
	if report.StartedAt.IsZero() {
		t.Errorf("report has no start time")
	}
}
