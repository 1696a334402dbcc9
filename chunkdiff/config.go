package chunkdiff

import (
	"runtime"

	"github.com/SDICurie/main/compress"
	"github.com/SDICurie/main/diff"
	"github.com/SDICurie/main/internal/options"
)

// DefaultChunkSize is the default chunk width in bytes (spec §4.3).
const DefaultChunkSize = 4096

// Config holds the tunable parameters of the chunked differential encoder.
// It is built by applying a set of Option values over NewConfig's defaults.
type Config struct {
	// ChunkSize is the fixed width, in bytes, that both inputs are split
	// into. The last chunk of either input may be shorter.
	ChunkSize int

	// TempDirectory is where per-chunk result files are staged before
	// being concatenated into the final diff stream.
	TempDirectory string

	// Threads bounds how many chunk classifications run concurrently.
	Threads int

	// Verbose enables progress output on os.Stderr.
	Verbose bool

	// CleanupTemp removes the per-chunk temp files after a successful
	// encode. Not contractually required by spec §3.7, but the
	// recommended default.
	CleanupTemp bool

	// Compressor is the entropy compressor used both for whole-chunk
	// compression and for compressing bsdiff patches.
	Compressor compress.Codec

	// Differ computes the binary patch between mismatched chunks.
	Differ diff.Engine
}

// NewConfig builds a Config from defaults plus the given options.
func NewConfig(tempDirectory string, opts ...Option) (Config, error) {
	cfg := Config{
		ChunkSize:     DefaultChunkSize,
		TempDirectory: tempDirectory,
		Threads:       runtime.NumCPU(),
		Verbose:       false,
		CleanupTemp:   true,
		Compressor:    compress.NewS2Codec(),
		Differ:        diff.NewBsdiffEngine(),
	}

	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Option is a functional option for configuring Config.
type Option = options.Option[*Config]

// WithChunkSize overrides the default 4096-byte chunk size.
func WithChunkSize(size int) Option {
	return options.New(func(c *Config) error {
		if size <= 0 {
			return invalidChunkSize(size)
		}
		c.ChunkSize = size

		return nil
	})
}

// WithThreads overrides the default runtime.NumCPU() worker count.
func WithThreads(n int) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return invalidThreadCount(n)
		}
		c.Threads = n

		return nil
	})
}

// WithVerbose toggles progress output on os.Stderr.
func WithVerbose(v bool) Option {
	return options.NoError(func(c *Config) { c.Verbose = v })
}

// WithCleanupTemp toggles removal of per-chunk temp files after a
// successful encode.
func WithCleanupTemp(v bool) Option {
	return options.NoError(func(c *Config) { c.CleanupTemp = v })
}

// WithCompressor overrides the default S2 compressor.
func WithCompressor(c compress.Codec) Option {
	return options.NoError(func(cfg *Config) { cfg.Compressor = c })
}

// WithDiffer overrides the default bsdiff engine.
func WithDiffer(d diff.Engine) Option {
	return options.NoError(func(cfg *Config) { cfg.Differ = d })
}
