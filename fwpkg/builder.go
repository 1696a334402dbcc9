package fwpkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SDICurie/main/chunkdiff"
	"github.com/SDICurie/main/codec"
	"github.com/SDICurie/main/compress"
	"github.com/SDICurie/main/errs"
)

// BuilderConfig holds the build-time knobs of a full package (spec §4.4).
type BuilderConfig struct {
	Identity Identity

	OutputDirectory string
	OutFile         string
	DescriptionFile string // empty disables the description document

	Platform      uint16
	Version       uint32
	MinVersion    uint32
	AppMinVersion uint32

	// Compression compresses each raw component image before writing it.
	// Ignored when Incremental is true.
	Compression bool

	// Incremental indicates components carry pre-built diff streams
	// (ComponentSpec.SourcePath points at a chunkdiff.Encoder output,
	// ComponentSpec.Patch is its manifest) rather than raw images.
	Incremental bool

	Compressor compress.Codec
}

// Builder assembles a full OTA package: outer header, descriptor table,
// and payload region, from a list of ComponentSpec values (spec §4.4).
type Builder struct {
	cfg        BuilderConfig
	components []ComponentSpec
	lastCheck  string
}

// NewBuilder creates a Builder for the given configuration and ordered
// component list. Descriptors are serialized in this declaration order
// (spec §3.6).
func NewBuilder(cfg BuilderConfig, components []ComponentSpec) *Builder {
	return &Builder{cfg: cfg, components: components}
}

// LastCheck returns the diagnostic line from the most recent Build's
// _package_check post-condition (spec §4.4): "out_file_size == header +
// payload" restated as text, for callers that want the original's
// console line instead of just a pass/fail error.
func (b *Builder) LastCheck() string {
	return b.lastCheck
}

// Build writes the package to cfg.OutputDirectory/cfg.OutFile and,
// if cfg.DescriptionFile is set, a sibling JSON description document.
// It returns the package's size Metrics.
func (b *Builder) Build() (Metrics, error) {
	if b.cfg.Incremental {
		for _, c := range b.components {
			if c.Patch == nil {
				return Metrics{}, errs.New(errs.KindInvalidConfig, fmt.Sprintf("component %q missing patch manifest in incremental mode", string(c.Magic[:])))
			}
		}
	}

	headerLength := uint16(codec.OuterHeaderSize + codec.DescriptorSize*len(b.components))
	outPath := filepath.Join(b.cfg.OutputDirectory, b.cfg.OutFile)

	out, err := os.Create(outPath)
	if err != nil {
		return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
	}

	if _, err := out.Seek(int64(headerLength), 0); err != nil {
		out.Close()
		return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
	}

	descriptors := make([]codec.Descriptor, len(b.components))
	records := make([]componentRecord, len(b.components))
	patchManifests := make([]chunkdiff.Manifest, 0, len(b.components))

	var offset uint32
	var payloadLength, payloadOriginalLength uint32

	for i, c := range b.components {
		raw, err := os.ReadFile(c.SourcePath)
		if err != nil {
			out.Close()
			return Metrics{}, errs.Wrap(errs.KindIo, c.SourcePath, err)
		}

		rawLength := uint32(len(raw))
		storedLength := rawLength
		lengthCompressed := rawLength
		ratio := "1.00000"
		payload := raw

		switch {
		case b.cfg.Incremental:
			storedLength = rawLength
			lengthCompressed = uint32(c.Patch.Size)
			rawLength = uint32(c.Patch.SizeOriginal)
			ratio = fixedRatio(int(storedLength), int(rawLength))
			patchManifests = append(patchManifests, *c.Patch)

		case b.cfg.Compression:
			compressed, err := b.cfg.Compressor.Compress(raw)
			if err != nil {
				out.Close()
				return Metrics{}, errs.Wrap(errs.KindExternalFailure, c.SourcePath, err)
			}
			payload = compressed
			storedLength = uint32(len(compressed))
			lengthCompressed = storedLength
			ratio = fixedRatio(len(compressed), len(raw))
		}

		if _, err := out.Write(payload); err != nil {
			out.Close()
			return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
		}

		descriptors[i] = codec.Descriptor{
			Magic:   c.Magic,
			Type:    c.Type,
			Version: c.Version,
			Offset:  offset,
			Length:  storedLength,
		}

		records[i] = componentRecord{
			Magic:            string(c.Magic[:]),
			Type:             c.Type,
			Version:          c.Version,
			Offset:           offset,
			Length:           rawLength,
			LengthCompressed: lengthCompressed,
			Ratio:            ratio,
			Patch:            c.Patch,
		}

		offset += storedLength
		payloadLength += storedLength
		payloadOriginalLength += rawLength
	}

	header := codec.OuterHeader{
		HeaderVersion: codec.SupportedHeaderVersion,
		HeaderLength:  headerLength,
		Platform:      b.cfg.Platform,
		CRC:           0,
		PayloadLength: payloadLength,
		Version:       b.cfg.Version,
		MinVersion:    b.cfg.MinVersion,
		AppMinVersion: b.cfg.AppMinVersion,
	}

	if _, err := out.Seek(0, 0); err != nil {
		out.Close()
		return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
	}
	if _, err := out.Write(codec.SerializeOuterHeader(header)); err != nil {
		out.Close()
		return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
	}
	for _, d := range descriptors {
		if _, err := out.Write(codec.SerializeDescriptor(d)); err != nil {
			out.Close()
			return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
		}
	}

	if err := out.Close(); err != nil {
		return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
	}

	var metrics Metrics
	switch {
	case b.cfg.Incremental:
		metrics = metricsForIncremental(patchManifests)
	case b.cfg.Compression:
		metrics = metricsForCompressedFull(int(payloadLength), int(payloadOriginalLength))
	default:
		metrics = metricsForRawFull(int(payloadLength), int(payloadOriginalLength))
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return Metrics{}, errs.Wrap(errs.KindIo, outPath, err)
	}
	expected := int64(headerLength) + int64(payloadLength)
	b.lastCheck = fmt.Sprintf("check_package: %d == %d", info.Size(), expected)
	if info.Size() != expected {
		return Metrics{}, errs.New(errs.KindIo, b.lastCheck)
	}

	if b.cfg.DescriptionFile != "" {
		identity := b.cfg.Identity.Resolve()
		doc := DescriptionDoc{Package: packageDoc{
			Project:     identity.Project,
			Board:       identity.Board,
			Chip:        identity.Chip,
			Incremental: b.cfg.Incremental,
			Header: headerRecord{
				HeaderVersion:         header.HeaderVersion,
				HeaderLength:          header.HeaderLength,
				Platform:              header.Platform,
				CRC:                   header.CRC,
				PayloadLength:         header.PayloadLength,
				PayloadOriginalLength: payloadOriginalLength,
				Ratio:                 fixedRatio(int(payloadLength), int(payloadOriginalLength)),
				Version:               header.Version,
				MinVersion:            header.MinVersion,
				AppMinVersion:         header.AppMinVersion,
			},
			Binaries: records,
			Metrics:  metrics,
		}}

		descPath := filepath.Join(b.cfg.OutputDirectory, b.cfg.DescriptionFile)
		if err := writeDescriptionJSON(descPath, doc); err != nil {
			return Metrics{}, err
		}
	}

	return metrics, nil
}

func fixedRatio(num, den int) string {
	if den == 0 {
		return "0.00000"
	}

	return fmt.Sprintf("%.5f", float64(num)/float64(den))
}
