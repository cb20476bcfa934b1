// Package audio provides telephony audio decoding, resampling and the
// sliding-window buffer that feeds streaming analysis.
package audio

import (
	"encoding/binary"
	"errors"
)

// ErrOddPCMLength is returned when 16-bit PCM input has a trailing byte.
var ErrOddPCMLength = errors.New("pcm data length is not a multiple of 2")

const muLawBias = 0x84

// muLawToLinear holds the ITU-T G.711 expansion of every mu-law byte.
var muLawToLinear [256]int16

func init() {
	for i := 0; i < 256; i++ {
		u := ^byte(i)
		exponent := (u >> 4) & 0x07
		mantissa := u & 0x0F
		sample := ((int32(mantissa) << 3) + muLawBias) << exponent
		sample -= muLawBias
		if u&0x80 != 0 {
			sample = -sample
		}
		muLawToLinear[i] = int16(sample)
	}
}

// DecodeMuLaw expands G.711 mu-law bytes, one sample per byte, into
// normalized samples in [-1, 1].
func DecodeMuLaw(data []byte) []float32 {
	samples := make([]float32, len(data))
	for i, b := range data {
		samples[i] = float32(muLawToLinear[b]) / 32768.0
	}
	return samples
}

// EncodeMuLaw compresses normalized samples to G.711 mu-law bytes.
func EncodeMuLaw(samples []float32) []byte {
	data := make([]byte, len(samples))
	for i, s := range samples {
		data[i] = muLawCompress(clampSample(s))
	}
	return data
}

func muLawCompress(s int16) byte {
	sign := byte(0)
	v := int32(s)
	if v < 0 {
		v = -v
		sign = 0x80
	}
	if v > 32635 {
		v = 32635
	}
	v += muLawBias

	exponent := byte(7)
	for mask := int32(0x4000); exponent > 0 && v&mask == 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte((v >> (exponent + 3)) & 0x0F)
	return ^(sign | exponent<<4 | mantissa)
}

// DecodePCM16 converts little-endian 16-bit PCM bytes into normalized
// samples in [-1, 1].
func DecodePCM16(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, ErrOddPCMLength
	}
	samples := make([]float32, len(data)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[2*i:]))
		samples[i] = float32(s) / 32767.0
	}
	return samples, nil
}

// EncodePCM16 converts normalized samples into little-endian 16-bit PCM.
func EncodePCM16(samples []float32) []byte {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(clampSample(s)))
	}
	return data
}

func clampSample(s float32) int16 {
	v := s * 32767.0
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
