package spreadsheet

import "github.com/rs/zerolog"

// Option configures a Sheet.
type Option func(*Sheet)

// WithLogger attaches a logger for debug-level edit and invalidation
// events. The default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Sheet) {
		s.log = log
	}
}
