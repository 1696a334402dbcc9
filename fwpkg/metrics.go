package fwpkg

import "github.com/SDICurie/main/chunkdiff"

// Metrics summarizes a package's size and compression gain. Three
// packaging modes compute it differently (spec §4.4, §4.7):
//   - compressed full package: gain_vs_compressed is always zero (there
//     is nothing else to compare the compressed payload against);
//     gain_vs_original reflects the raw-vs-compressed saving.
//   - raw full package: both gains are zero; size, size_compressed and
//     size_original all describe the same uncompressed payload.
//   - incremental package: every field is the sum, across components,
//     of that component's chunkdiff.Manifest figures.
type Metrics struct {
	Size             int `json:"size"`
	SizeCompressed   int `json:"size_compressed"`
	SizeOriginal     int `json:"size_original"`
	GainVsCompressed int `json:"gain_vs_compressed"`
	GainVsOriginal   int `json:"gain_vs_original"`
}

func metricsForCompressedFull(payloadLength, payloadOriginalLength int) Metrics {
	return Metrics{
		Size:             payloadLength,
		SizeCompressed:   payloadLength,
		SizeOriginal:     payloadOriginalLength,
		GainVsCompressed: 0,
		GainVsOriginal:   payloadOriginalLength - payloadLength,
	}
}

func metricsForRawFull(payloadLength, payloadOriginalLength int) Metrics {
	return Metrics{
		Size:             payloadLength,
		SizeCompressed:   payloadLength,
		SizeOriginal:     payloadOriginalLength,
		GainVsCompressed: 0,
		GainVsOriginal:   0,
	}
}

func metricsForIncremental(manifests []chunkdiff.Manifest) Metrics {
	var m Metrics
	for _, man := range manifests {
		m.Size += man.Size
		m.SizeCompressed += man.SizeCompressed
		m.SizeOriginal += man.SizeOriginal
		m.GainVsCompressed += man.GainVsCompressed
		m.GainVsOriginal += man.GainVsOriginal
	}

	return m
}
