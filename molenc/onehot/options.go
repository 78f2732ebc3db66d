package onehot

import (
	"fmt"
	"strings"

	internal "github.com/ZanzyTHEbar/molencoder/molenc"

	"github.com/rs/zerolog"
)

// Overflow selects what happens to strings longer than the pad length.
type Overflow int

const (
	// Truncate keeps the first PadLength runes.
	Truncate Overflow = iota
	// Reject fails the call with ErrInputTooLong.
	Reject
)

func (o Overflow) String() string {
	switch o {
	case Truncate:
		return "truncate"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("Overflow(%d)", int(o))
	}
}

// ParseOverflow maps a config value onto an Overflow policy. Empty means
// Truncate.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate":
		return Truncate, nil
	case "reject", "error":
		return Reject, nil
	default:
		return Truncate, fmt.Errorf("%w: %q", ErrInvalidOverflow, s)
	}
}

type settings struct {
	padLength int
	overflow  Overflow
	logger    zerolog.Logger
}

func defaultSettings() settings {
	return settings{
		padLength: internal.DefaultPadLength,
		overflow:  Truncate,
		logger:    zerolog.Nop(),
	}
}

func (s settings) validate() error {
	if s.padLength <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPadLength, s.padLength)
	}
	if s.overflow != Truncate && s.overflow != Reject {
		return fmt.Errorf("%w: %s", ErrInvalidOverflow, s.overflow)
	}
	return nil
}

// Option configures an Encoder.
type Option func(*settings)

// WithPadLength sets the fixed number of positions per encoded string.
func WithPadLength(n int) Option {
	return func(s *settings) { s.padLength = n }
}

// WithOverflow sets the policy for strings longer than the pad length.
func WithOverflow(o Overflow) Option {
	return func(s *settings) { s.overflow = o }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func buildSettings(opts []Option) (settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s, s.validate()
}
