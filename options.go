package doublets

import "fmt"

// Backend selects the backing memory implementation for a store.
type Backend int

const (
	// BackendHeap keeps the record array in anonymous process memory.
	BackendHeap Backend = iota
	// BackendFileMapped memory-maps a disk file as the record array.
	BackendFileMapped
)

// Layout selects the on-disk/in-memory record layout.
type Layout int

const (
	// LayoutUnit stores data and both tree nodes in one record per
	// link.
	LayoutUnit Layout = iota
	// LayoutSplit stores data records and index-node records in two
	// parallel arrays.
	LayoutSplit
)

// Config holds store-wide configuration assembled from Options.
type Config struct {
	Backend Backend
	Layout  Layout

	// Path is the backing file path; required when Backend is
	// BackendFileMapped.
	Path string

	// GrowthStepRecords is how many records to grow the backing
	// memory by when it runs out of reserved space.
	GrowthStepRecords int

	// MetricsEnabled registers the store's operation counters,
	// histograms, and gauges with the default Prometheus registerer.
	MetricsEnabled bool

	// ExternalRangeLo/Hi configure the constants block's external
	// range; both zero means "no external range".
	ExternalRangeLo uint64
	ExternalRangeHi uint64
	hasExternal     bool
}

// DefaultConfig returns the configuration a store uses when no Options
// are supplied: heap-backed, unit layout, 64Ki record growth steps,
// metrics enabled.
func DefaultConfig() *Config {
	return &Config{
		Backend:           BackendHeap,
		Layout:            LayoutUnit,
		GrowthStepRecords: 1 << 16,
		MetricsEnabled:    true,
	}
}

// Option configures a Config. Options are applied in order and may
// fail eagerly (e.g. on an invalid growth step), mirroring the
// validate-at-apply-time convention used throughout this module's
// functional options.
type Option func(*Config) error

// WithFileMapped selects the file-mapped backend at the given path.
func WithFileMapped(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return fmt.Errorf("doublets: file-mapped path cannot be empty")
		}
		c.Backend = BackendFileMapped
		c.Path = path
		return nil
	}
}

// WithSplitLayout selects the two-array split record layout instead of
// the default unit layout.
func WithSplitLayout() Option {
	return func(c *Config) error {
		c.Layout = LayoutSplit
		return nil
	}
}

// WithGrowthStep overrides the number of records the backing memory
// grows by when exhausted.
func WithGrowthStep(records int) Option {
	return func(c *Config) error {
		if records <= 0 {
			return fmt.Errorf("doublets: growth step must be positive")
		}
		c.GrowthStepRecords = records
		return nil
	}
}

// WithMetrics enables or disables Prometheus metrics registration.
func WithMetrics(enabled bool) Option {
	return func(c *Config) error {
		c.MetricsEnabled = enabled
		return nil
	}
}

// WithExternalRange configures the [lo,hi] range of identifiers owned
// by a collaborator outside this store.
func WithExternalRange(lo, hi uint64) Option {
	return func(c *Config) error {
		if lo > hi {
			return fmt.Errorf("doublets: external range lo (%d) must not exceed hi (%d)", lo, hi)
		}
		c.ExternalRangeLo = lo
		c.ExternalRangeHi = hi
		c.hasExternal = true
		return nil
	}
}

// Apply runs opts against a fresh DefaultConfig, returning the result
// or the first error encountered.
func Apply(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("doublets: failed to apply option: %w", err)
		}
	}
	return cfg, nil
}
