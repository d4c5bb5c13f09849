package transmission

import "time"

// Config holds the transmission engine's timing and retry parameters
// (§4.4/§4.5), mirroring the teacher's Config.defaults() pattern in
// zmodem.go.
type Config struct {
	MaxRetries        int
	T1                time.Duration
	T2                time.Duration
	AckTimeout        time.Duration
	InterCommandDelay time.Duration // disabled (zero) on TCP transports
}

// defaults mirrors the teacher's Config.defaults(): sane values a caller
// can selectively override.
func defaults() Config {
	return Config{
		MaxRetries:        3,
		T1:                200 * time.Millisecond,
		T2:                5 * time.Second,
		AckTimeout:        1 * time.Second,
		InterCommandDelay: 0,
	}
}

// DefaultConfig returns the engine's default timing parameters.
func DefaultConfig() Config { return defaults() }
