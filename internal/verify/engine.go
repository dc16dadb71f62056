// internal/verify/engine.go
package verify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/config"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/transport"
)

// Transport is the byte-level connection a probe runs over. The serial
// implementation lives in internal/transport; tests inject scripted fakes.
type Transport interface {
	Open(ctx context.Context) error
	Close() error
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context, maxBytes int) ([]byte, error)
}

// Dialer creates a transport for a device path.
type Dialer func(device string) (Transport, error)

// Engine probes each mapped channel and classifies the response. Channels
// are verified strictly in order; a port handle is only ever held open for
// the duration of one channel's probe.
type Engine struct {
	config *config.ProbeConfig
	logger *zap.Logger
	dial   Dialer
}

// NewEngine creates a verification engine. A nil dialer wires in the
// serial transport with the configured baud rate and read timeout.
func NewEngine(cfg *config.ProbeConfig, logger *zap.Logger, dial Dialer) *Engine {
	e := &Engine{
		config: cfg,
		logger: logger.With(zap.String("component", "verify")),
		dial:   dial,
	}
	if e.dial == nil {
		e.dial = func(device string) (Transport, error) {
			return transport.NewConnection(&transport.Config{
				Port:        device,
				BaudRate:    cfg.BaudRate,
				ReadTimeout: cfg.ReadTimeout,
			}, logger)
		}
	}
	return e
}

// VerifyAll probes every channel of the map in order and returns the run
// report. A per-channel failure never aborts the run; every channel ends
// with exactly one verdict.
func (e *Engine) VerifyAll(ctx context.Context, portMap *model.PortMap) *model.Report {
	report := &model.Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	if e.config.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.OverallTimeout)
		defer cancel()
	}

	for _, channel := range model.Channels {
		result := e.VerifyChannel(ctx, channel, portMap)
		report.Results = append(report.Results, result)

		switch result.Verdict {
		case model.VerdictPass:
			report.Passed++
			report.Eligible++
		case model.VerdictFail:
			report.Eligible++
		}
	}

	e.logger.Info("Verification run completed",
		zap.String("run_id", report.RunID),
		zap.Int("passed", report.Passed),
		zap.Int("eligible", report.Eligible),
	)
	return report
}

// VerifyChannel walks one channel through unmapped/mapped/probed and
// returns its classified result. Unknown channel names fail without a
// probe being issued.
func (e *Engine) VerifyChannel(ctx context.Context, channel model.Channel, portMap *model.PortMap) model.ChannelResult {
	start := time.Now()
	result := model.ChannelResult{Channel: channel}

	if !channel.IsValid() {
		result.Verdict = model.VerdictFail
		result.Error = "unknown channel"
		result.Duration = time.Since(start)
		return result
	}

	device, mapped := portMap.Device(channel)
	if mapped {
		result.Device = &device
	}

	// JUMPERS has no electrical test; it is classified without probing,
	// mapped or not.
	if channel == model.ChannelJumpers {
		result.Verdict = model.VerdictNotImplemented
		result.Duration = time.Since(start)
		return result
	}

	if !mapped {
		result.Verdict = model.VerdictNotMapped
		result.Duration = time.Since(start)
		return result
	}

	expectation, known := expectationFor(channel)
	if !known {
		result.Verdict = model.VerdictFail
		result.Error = "no expectation defined for channel"
		result.Duration = time.Since(start)
		return result
	}

	response, err := e.probe(ctx, device, expectation.Command)
	result.Response = response
	result.Duration = time.Since(start)
	if err != nil {
		result.Verdict = model.VerdictFail
		result.Error = err.Error()
		e.logger.Warn("Channel probe failed",
			zap.String("channel", string(channel)),
			zap.String("device", device),
			zap.Error(err),
		)
		return result
	}

	if expectation.Matches(response) {
		result.Verdict = model.VerdictPass
	} else {
		result.Verdict = model.VerdictFail
		e.logger.Debug("Channel response did not match expectation",
			zap.String("channel", string(channel)),
			zap.String("device", device),
			zap.String("response", response),
		)
	}
	return result
}

// probe performs the single request/response exchange for one channel.
// The connection is closed before returning, success or not, so the next
// channel never contends for the port.
func (e *Engine) probe(ctx context.Context, device, command string) (string, error) {
	conn, err := e.dial(device)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err := conn.Open(ctx); err != nil {
		return "", err
	}
	if err := conn.Write(ctx, []byte(command+"\r")); err != nil {
		return "", err
	}
	response, err := conn.Read(ctx, e.config.ReadBuffer)
	if err != nil {
		return string(response), err
	}
	return string(response), nil
}
