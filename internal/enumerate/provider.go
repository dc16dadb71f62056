// internal/enumerate/provider.go
package enumerate

import (
	"context"

	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// Provider lists candidate serial ports together with their USB identity
// and topology location. Implementations must not hold any OS handle open
// between calls; each List is a fresh snapshot.
type Provider interface {
	List(ctx context.Context) ([]model.CandidatePort, error)
	Name() string
}

// BusInventory answers how many USB devices with a given vendor/product
// identity are visible on the bus, independent of whether a serial driver
// bound to them. Used for diagnostics when discovery comes up empty.
type BusInventory interface {
	Count(ctx context.Context, vendorID, productID int) (int, error)
}

// NewProvider returns the enumeration backend for the current platform.
// There is a single backend today; the indirection exists so the mapper
// stays provider-agnostic and tests can inject scripted port sets.
func NewProvider(logger *zap.Logger) Provider {
	return newSerialProvider(logger)
}
