// internal/transport/serial.go
package transport

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Config represents serial port configuration for one probe connection.
type Config struct {
	Port        string        `json:"port"`
	BaudRate    int           `json:"baud_rate"`
	ReadTimeout time.Duration `json:"read_timeout"`
}

// Connection is a serial port held open for the scope of a single
// channel's probe. It is created, opened, used and closed sequentially;
// the mutex only guards against misuse, not concurrent probing.
type Connection struct {
	config *Config
	port   serial.Port
	logger *zap.Logger
	mutex  sync.Mutex
	isOpen bool
}

// NewConnection creates a new serial connection for the given device.
func NewConnection(config *Config, logger *zap.Logger) (*Connection, error) {
	if config.Port == "" {
		return nil, fmt.Errorf("port is required")
	}
	return &Connection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "serial"),
			zap.String("port", config.Port),
		),
	}, nil
}

// Open opens the serial port in 8N1 mode and arms the read timeout.
func (c *Connection) Open(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.isOpen {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := &serial.Mode{
		BaudRate: c.config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(c.config.Port, mode)
	if err != nil {
		c.logger.Debug("Failed to open serial port", zap.Error(err))
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	if err := port.SetReadTimeout(c.config.ReadTimeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	c.port = port
	c.isOpen = true
	c.logger.Debug("Serial port opened", zap.Int("baud_rate", c.config.BaudRate))
	return nil
}

// Close releases the serial port. Safe to call on a never-opened or
// already-closed connection.
func (c *Connection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isOpen || c.port == nil {
		return nil
	}
	if err := c.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	c.port = nil
	c.isOpen = false
	return nil
}

// Write writes data to the serial port.
func (c *Connection) Write(ctx context.Context, data []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isOpen || c.port == nil {
		return fmt.Errorf("serial port not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := c.port.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write to serial port: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}
	return nil
}

// Read reads up to maxBytes from the serial port, accumulating until the
// buffer is full or the read timeout elapses with no new data. A timeout
// is not an error: whatever arrived (possibly nothing) is returned, which
// matches how probe responses are classified.
func (c *Connection) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isOpen || c.port == nil {
		return nil, fmt.Errorf("serial port not open")
	}

	buffer := make([]byte, maxBytes)
	filled := 0
	deadline := time.Now().Add(c.config.ReadTimeout)

	for filled < maxBytes {
		if err := ctx.Err(); err != nil {
			return buffer[:filled], err
		}

		n, err := c.port.Read(buffer[filled:])
		filled += n
		if err != nil {
			if err == io.EOF {
				break
			}
			return buffer[:filled], fmt.Errorf("failed to read from serial port: %w", err)
		}
		if n == 0 {
			// Read timeout elapsed with no data.
			break
		}
		if time.Now().After(deadline) {
			break
		}
	}

	return buffer[:filled], nil
}
