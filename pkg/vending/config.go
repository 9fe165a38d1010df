package vending

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/soda.go/pkg/l0/serial"
)

// Config defines how the vending controller is reached.
type Config struct {
	Device       string
	Baud         int
	ReplyTimeout time.Duration
	// Retries applies to the inventory query only.
	Retries int
}

var defaultConfig = Config{
	Device:       "/dev/ttyS0",
	Baud:         4800,
	ReplyTimeout: DefaultReplyTimeout,
}

func init() {
	if val := os.Getenv("SODA_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val, err := strconv.Atoi(os.Getenv("SODA_BAUD")); err == nil {
		defaultConfig.Baud = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "soda-device", defaultConfig.Device, "Vending controller serial device.")
	flag.IntVar(&defaultConfig.Baud, "soda-baud", defaultConfig.Baud, "Vending controller baud rate.")
	flag.DurationVar(&defaultConfig.ReplyTimeout, "soda-timeout", defaultConfig.ReplyTimeout, "Inventory and vend reply timeout.")
	flag.IntVar(&defaultConfig.Retries, "soda-retries", defaultConfig.Retries, "Inventory query retries.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// PortConfig returns the serial line settings.
func (c *Config) PortConfig() serial.PortConfig {
	return serial.DefaultPortConfig(c.Device, c.Baud)
}

// Open opens the serial line and creates the Machine.
func (c *Config) Open() (*Machine, error) {
	ch, err := serial.Open(c.PortConfig())
	if err != nil {
		return nil, err
	}
	m := New(ch)
	m.ReplyTimeout = c.ReplyTimeout
	m.ctl.Retries = c.Retries
	return m, nil
}
