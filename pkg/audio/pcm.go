// Package audio plays synthesized PCM on the default output device and
// reads 16-bit PCM from the default microphone.
package audio

import (
	"encoding/binary"
	"errors"
)

// Format describes interleaved signed 16-bit little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// DefaultFormat is what the recognition backends expect.
var DefaultFormat = Format{SampleRate: 16000, Channels: 1}

// BytesPerSecond of the format.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * 2
}

// EncodePCM16 encodes samples as little-endian bytes.
func EncodePCM16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// ExtractPCM strips the RIFF header of a WAV file and returns the data chunk.
func ExtractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("audio: wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("audio: not a wav file")
	}
	pos := 12
	for pos+8 <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		if id == "data" {
			start := pos + 8
			end := start + size
			if end > len(wav) {
				end = len(wav)
			}
			return wav[start:end], nil
		}
		pos += 8 + size
		// chunks are word aligned
		if size%2 != 0 {
			pos++
		}
	}
	return nil, errors.New("audio: wav data chunk not found")
}
