// Package ota provides convenient top-level wrappers around fwpkg,
// chunkdiff and incremental, simplifying the most common operations of
// building and reading OTA packages for a multi-chip platform (an
// application processor, a sensor processor, and a BLE radio
// coexisting on one SoC).
//
// # Core Features
//
//   - Bit-exact binary codec for the outer header, component descriptor
//     table and diff-stream chunk header (package codec)
//   - Pluggable entropy compression: S2, Zstd, LZ4, or none (package
//     compress)
//   - Chunked binary diffing with per-chunk keep/compressed/patch
//     selection (package chunkdiff)
//   - Full and incremental package assembly and parsing (package fwpkg)
//   - End-to-end incremental package construction from two prior full
//     releases (package incremental)
//
// # Basic Usage
//
// Building a full, compressed package:
//
//	import "github.com/SDICurie/main/fwpkg"
//
//	cfg := fwpkg.BuilderConfig{
//	    Identity:        fwpkg.Identity{Chip: "curie"},
//	    OutputDirectory: "/tmp/out",
//	    OutFile:         "package.ota.bin",
//	    DescriptionFile: "package.json",
//	    Version:         1,
//	    Compression:     true,
//	    Compressor:      compress.NewS2Codec(),
//	}
//	components := []fwpkg.ComponentSpec{
//	    {Magic: [3]byte{'A', 'R', 'C'}, Type: 0, SourcePath: "arc.bin"},
//	}
//	metrics, err := fwpkg.NewBuilder(cfg, components).Build()
//
// Reading an existing package back:
//
//	binaries, err := fwpkg.NewParser().Parse("package.ota.bin")
//	arcImage := binaries[[3]byte{'A', 'R', 'C'}]
//
// Building an incremental package between two prior releases:
//
//	import "github.com/SDICurie/main/incremental"
//
//	cfg := incremental.BuilderConfig{
//	    FromFile:        "from_package.ota.bin",
//	    ToFile:          "to_package.ota.bin",
//	    InputDirectory:  "/tmp/stage",
//	    OutputDirectory: "/tmp/out",
//	    OutFile:         "package_incremental.bin",
//	    ChunkSize:       4096,
//	    Compressor:      compress.NewS2Codec(),
//	}
//	requests := []incremental.ComponentRequest{
//	    {Magic: [3]byte{'A', 'R', 'C'}, SourcePath: "arc.patch"},
//	}
//	metrics, err := incremental.NewBuilder(cfg).Build(context.Background(), requests)
//
// # Package Structure
//
// This file provides top-level convenience wrappers around fwpkg and
// incremental for the most common use cases. For chunk-level control
// over the differential encoder, use package chunkdiff directly.
package ota

import (
	"context"

	"github.com/SDICurie/main/chunkdiff"
	"github.com/SDICurie/main/compress"
	"github.com/SDICurie/main/fwpkg"
	"github.com/SDICurie/main/incremental"
)

// BuildFullPackage assembles a full OTA package from raw component
// images. It is a thin wrapper over fwpkg.NewBuilder(cfg,
// components).Build(), kept here for callers that only need the
// common path.
func BuildFullPackage(cfg fwpkg.BuilderConfig, components []fwpkg.ComponentSpec) (fwpkg.Metrics, error) {
	return fwpkg.NewBuilder(cfg, components).Build()
}

// ParsePackage reads an existing full or incremental OTA package and
// returns its component payloads indexed by 3-byte magic tag.
func ParsePackage(path string) (map[[3]byte][]byte, error) {
	return fwpkg.NewParser().Parse(path)
}

// BuildIncrementalPackage drives the full incremental pipeline: parse
// two prior full packages, decompress and diff each matching
// component, and reassemble the diff streams into a new full package.
func BuildIncrementalPackage(ctx context.Context, cfg incremental.BuilderConfig, requests []incremental.ComponentRequest) (fwpkg.Metrics, error) {
	return incremental.NewBuilder(cfg).Build(ctx, requests)
}

// DiffChunks runs the chunked differential encoder directly between
// two decompressed image files, for callers that need chunk-level
// results without going through a full incremental package build.
func DiffChunks(ctx context.Context, cfg chunkdiff.Config, from, to, outFile, manifestFile string) (bool, chunkdiff.Manifest, error) {
	return chunkdiff.NewEncoder(cfg).Encode(ctx, from, to, outFile, manifestFile)
}

// DefaultCompressor returns the S2 codec, the default entropy
// compressor used throughout this module when a caller does not
// override it (spec §4.2, §9 Open Questions: S2 chosen for fast
// symmetric compress/decompress on embedded-adjacent payload sizes).
func DefaultCompressor() compress.Codec {
	return compress.NewS2Codec()
}
