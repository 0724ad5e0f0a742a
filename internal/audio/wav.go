// Package audio reduces the extracted waveform to the per-second RMS series
// that highlight selection consumes. It expects exactly the format the ffmpeg
// adapter produces: 16 kHz mono 16-bit PCM WAV.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

const (
	wantSampleRate = 16000
	wantChannels   = 1
	wantBitDepth   = 16
)

// RMSPerSecond reads a mono 16 kHz 16-bit PCM WAV file and returns one RMS
// value per whole second, the trailing partial second included.
func RMSPerSecond(wavPath string) ([]float64, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}
	samples, err := decodePCM16(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", wavPath, err)
	}
	return rmsBuckets(samples, wantSampleRate), nil
}

// decodePCM16 walks the RIFF chunks, validates the fmt chunk against the
// expected extraction format and returns the data chunk as [-1,1] samples.
func decodePCM16(data []byte) ([]float64, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var fmtSeen bool
	var pcm []byte
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			channels := int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			rate := int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if format != 1 || channels != wantChannels || rate != wantSampleRate || bits != wantBitDepth {
				return nil, fmt.Errorf("unexpected WAV format: fmt=%d ch=%d rate=%d bits=%d (want PCM mono 16kHz 16-bit)",
					format, channels, rate, bits)
			}
			fmtSeen = true
		case "data":
			pcm = data[body : body+size]
		}
		// Chunks are word-aligned.
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}
	if !fmtSeen {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if pcm == nil {
		return nil, fmt.Errorf("missing data chunk")
	}

	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(pcm[2*i : 2*i+2]))
		samples[i] = float64(s) / 32768.0
	}
	return samples, nil
}

func rmsBuckets(samples []float64, rate int) []float64 {
	if len(samples) == 0 {
		return nil
	}
	total := (len(samples) + rate - 1) / rate
	out := make([]float64, total)
	for t := 0; t < total; t++ {
		lo := t * rate
		hi := lo + rate
		if hi > len(samples) {
			hi = len(samples)
		}
		var sum float64
		for _, s := range samples[lo:hi] {
			sum += s * s
		}
		out[t] = math.Sqrt(sum / float64(hi-lo))
	}
	return out
}
