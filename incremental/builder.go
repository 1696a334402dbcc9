// Package incremental drives fwpkg.Parser, compress.Codec and
// chunkdiff.Encoder together to build an incremental OTA package from
// two previously released full packages (spec §4.6).
package incremental

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SDICurie/main/chunkdiff"
	"github.com/SDICurie/main/compress"
	"github.com/SDICurie/main/errs"
	"github.com/SDICurie/main/fwpkg"
)

// ComponentRequest names one component to diff: its magic tag, type,
// and the file name (relative to InputDirectory) the diff stream
// should be written under.
type ComponentRequest struct {
	Magic      [3]byte
	Type       uint8
	SourcePath string // diff-stream output path, relative to InputDirectory
}

// BuilderConfig configures an incremental build (spec §4.6).
type BuilderConfig struct {
	Identity Identity

	FromFile string // previously released full package
	ToFile   string // new full package

	InputDirectory  string // staging root for decompressed/diffed intermediates
	OutputDirectory string
	OutFile         string
	DescriptionFile string

	ChunkSize int
	Threads   int

	Compressor compress.Codec

	Platform      uint16
	Version       uint32
	MinVersion    uint32
	AppMinVersion uint32
}

// Identity is a re-export of fwpkg.Identity for callers that only
// import the incremental package.
type Identity = fwpkg.Identity

// Builder drives the full incremental pipeline: parse, decompress,
// stage, diff, and reassemble into a new full package carrying diff
// streams as payloads.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder creates an incremental Builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{cfg: cfg}
}

// stagingDir isolates intermediate .from/.to files and the chunkdiff
// temp directory under InputDirectory/.ota-stage/, rather than writing
// directly into the caller's source tree (resolves the staging-path
// ambiguity the original risked).
func (b *Builder) stagingDir() string {
	return filepath.Join(b.cfg.InputDirectory, ".ota-stage")
}

// Build runs the full algorithm of spec §4.6 and returns the resulting
// package's size Metrics.
func (b *Builder) Build(ctx context.Context, requests []ComponentRequest) (fwpkg.Metrics, error) {
	if b.cfg.ChunkSize <= 0 {
		return fwpkg.Metrics{}, errs.New(errs.KindInvalidConfig, "chunk_size must be > 0")
	}

	fromComponents, err := fwpkg.NewParser().Parse(b.cfg.FromFile)
	if err != nil {
		return fwpkg.Metrics{}, err
	}
	toComponents, err := fwpkg.NewParser().Parse(b.cfg.ToFile)
	if err != nil {
		return fwpkg.Metrics{}, err
	}

	stage := b.stagingDir()
	tmp := filepath.Join(stage, "tmp")
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return fwpkg.Metrics{}, errs.Wrap(errs.KindIo, tmp, err)
	}

	specs := make([]fwpkg.ComponentSpec, len(requests))

	for i, req := range requests {
		magic := string(req.Magic[:])

		fromBytes, ok := fromComponents[req.Magic]
		if !ok {
			return fwpkg.Metrics{}, errs.New(errs.KindMissingComponent, fmt.Sprintf("%s missing from %s", magic, b.cfg.FromFile))
		}
		toBytes, ok := toComponents[req.Magic]
		if !ok {
			return fwpkg.Metrics{}, errs.New(errs.KindMissingComponent, fmt.Sprintf("%s missing from %s", magic, b.cfg.ToFile))
		}

		fromRaw, err := b.cfg.Compressor.Decompress(fromBytes)
		if err != nil {
			return fwpkg.Metrics{}, errs.Wrap(errs.KindExternalFailure, string(req.Magic[:])+" from", err)
		}
		toRaw, err := b.cfg.Compressor.Decompress(toBytes)
		if err != nil {
			return fwpkg.Metrics{}, errs.Wrap(errs.KindExternalFailure, string(req.Magic[:])+" to", err)
		}

		fromStagePath := filepath.Join(stage, magic+".from")
		toStagePath := filepath.Join(stage, magic+".to")
		if err := os.WriteFile(fromStagePath, fromRaw, 0o644); err != nil {
			return fwpkg.Metrics{}, errs.Wrap(errs.KindIo, fromStagePath, err)
		}
		if err := os.WriteFile(toStagePath, toRaw, 0o644); err != nil {
			return fwpkg.Metrics{}, errs.Wrap(errs.KindIo, toStagePath, err)
		}

		diffOutPath := filepath.Join(b.cfg.InputDirectory, req.SourcePath)
		manifestPath := diffOutPath + ".json"
		if err := os.MkdirAll(filepath.Dir(diffOutPath), 0o755); err != nil {
			return fwpkg.Metrics{}, errs.Wrap(errs.KindIo, diffOutPath, err)
		}

		encCfg, err := chunkdiff.NewConfig(tmp,
			chunkdiff.WithChunkSize(b.cfg.ChunkSize),
			chunkdiff.WithThreads(positiveOr(b.cfg.Threads, 1)),
			chunkdiff.WithCompressor(b.cfg.Compressor),
		)
		if err != nil {
			return fwpkg.Metrics{}, err
		}

		_, manifest, err := chunkdiff.NewEncoder(encCfg).Encode(ctx, fromStagePath, toStagePath, diffOutPath, manifestPath)
		if err != nil {
			return fwpkg.Metrics{}, err
		}

		specs[i] = fwpkg.ComponentSpec{
			Magic:      req.Magic,
			Type:       req.Type,
			SourcePath: diffOutPath,
			Patch:      &manifest,
		}
	}

	builderCfg := fwpkg.BuilderConfig{
		Identity:        b.cfg.Identity,
		OutputDirectory: b.cfg.OutputDirectory,
		OutFile:         b.cfg.OutFile,
		DescriptionFile: b.cfg.DescriptionFile,
		Platform:        b.cfg.Platform,
		Version:         b.cfg.Version,
		MinVersion:      b.cfg.MinVersion,
		AppMinVersion:   b.cfg.AppMinVersion,
		Compression:     false,
		Incremental:     true,
	}

	return fwpkg.NewBuilder(builderCfg, specs).Build()
}

func positiveOr(n, fallback int) int {
	if n > 0 {
		return n
	}

	return fallback
}
