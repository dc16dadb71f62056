// internal/portmap/mapper.go
package portmap

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/config"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/enumerate"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// ErrNoCandidatePorts signals that enumeration saw no port with the
// board's vendor/product identity. Callers report an all-null map and a
// non-zero exit status rather than treating this as fatal.
var ErrNoCandidatePorts = errors.New("no candidate ports match the board identity")

// Result carries everything one discovery run produced. Valid and Invalid
// keep the partitioned port sets for debug dumps.
type Result struct {
	Map      model.PortMap
	Topology BoardTopology
	Majors   []string
	Valid    []model.CandidatePort
	Invalid  []model.CandidatePort
}

// Mapper resolves the logical port map from enumerated serial ports.
type Mapper struct {
	provider enumerate.Provider
	bus      enumerate.BusInventory
	config   *config.BoardConfig
	logger   *zap.Logger

	// shifted selects one-based hub sub-port numbering. Fixed by the host
	// platform at construction; overridable in tests.
	shifted bool
}

// NewMapper creates a mapper over the given enumeration provider. A nil
// bus inventory disables the bus-level diagnostics used when no candidate
// port is found.
func NewMapper(provider enumerate.Provider, bus enumerate.BusInventory, cfg *config.BoardConfig, logger *zap.Logger) *Mapper {
	return &Mapper{
		provider: provider,
		bus:      bus,
		config:   cfg,
		logger:   logger.With(zap.String("component", "mapper")),
		shifted:  runtime.GOOS == "windows",
	}
}

// Map runs one discovery pass: enumerate, filter by board identity, group
// by hub, resolve the pattern table and assign channels. The returned
// error is ErrNoCandidatePorts (wrapped) when nothing matched; the Result
// still carries the all-null map and both partitions in that case.
func (m *Mapper) Map(ctx context.Context) (*Result, error) {
	ports, err := m.provider.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	m.logger.Debug("Serial ports enumerated",
		zap.String("provider", m.provider.Name()),
		zap.Int("count", len(ports)),
	)

	valid, invalid := Partition(ports, m.config.VendorID, m.config.ProductID)
	majors := MajorNumbers(valid)
	topology := Topology(majors)

	if len(majors) > 2 {
		// Defined degradation: only the first two hubs, ascending, are
		// used. Seen on benches with more than one board attached.
		m.logger.Warn("More than two hub identifiers observed, using first two",
			zap.Strings("majors", majors),
		)
	}

	result := &Result{
		Topology: topology,
		Majors:   majors,
		Valid:    valid,
		Invalid:  invalid,
	}

	if len(valid) == 0 {
		m.diagnoseEmptyBus(ctx)
		result.Map = Assign(nil, ResolvePatterns(nil, m.shifted), m.logger)
		return result, fmt.Errorf("vendor %04x product %04x: %w",
			m.config.VendorID, m.config.ProductID, ErrNoCandidatePorts)
	}

	table := ResolvePatterns(majors, m.shifted)
	result.Map = Assign(valid, table, m.logger)

	m.logger.Info("Port map resolved",
		zap.String("topology", string(topology)),
		zap.Strings("majors", majors),
		zap.Int("mapped", result.Map.MappedCount()),
	)
	return result, nil
}

// diagnoseEmptyBus distinguishes "hub chip not on the bus" from "chip
// present but no serial driver bound", which saves a lot of cable
// swapping when a rig goes dark.
func (m *Mapper) diagnoseEmptyBus(ctx context.Context) {
	if m.bus == nil {
		return
	}
	count, err := m.bus.Count(ctx, m.config.VendorID, m.config.ProductID)
	if err != nil {
		m.logger.Debug("USB bus inventory unavailable", zap.Error(err))
		return
	}
	if count > 0 {
		m.logger.Warn("Hub chip present on USB bus but no serial port bound to it",
			zap.Int("devices", count),
		)
	} else {
		m.logger.Warn("No hub chip visible on USB bus; is the board connected?")
	}
}
