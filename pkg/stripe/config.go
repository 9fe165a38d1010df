package stripe

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/soda.go/pkg/l0/serial"
)

// Config defines how the stripe reader is reached.
type Config struct {
	Device string
	Baud   int
	Settle time.Duration
	Poll   time.Duration
}

var defaultConfig = Config{
	Device: "/dev/ttyUSB0",
	Baud:   38400,
	Settle: DefaultSettle,
	Poll:   DefaultPoll,
}

func init() {
	if val := os.Getenv("MSR_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val, err := strconv.Atoi(os.Getenv("MSR_BAUD")); err == nil {
		defaultConfig.Baud = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "msr-device", defaultConfig.Device, "Stripe reader serial device.")
	flag.IntVar(&defaultConfig.Baud, "msr-baud", defaultConfig.Baud, "Stripe reader baud rate.")
	flag.DurationVar(&defaultConfig.Settle, "msr-settle", defaultConfig.Settle, "Delay after each reader command.")
	flag.DurationVar(&defaultConfig.Poll, "msr-poll", defaultConfig.Poll, "Swipe wait slice.")
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

// Open opens the serial line and creates the Reader.
func (c *Config) Open() (*Reader, error) {
	ch, err := serial.Open(serial.DefaultPortConfig(c.Device, c.Baud))
	if err != nil {
		return nil, err
	}
	r := NewReader(ch)
	r.Settle = c.Settle
	return r, nil
}

// NewListener creates a Listener over r with the configured poll slice.
func (c *Config) NewListener(r *Reader, h Handler) *Listener {
	return &Listener{Reader: r, Handler: h, Poll: c.Poll}
}
