package sound

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"pomodesk/internal/core/engine"
)

const (
	SampleRate   = 44100
	ChannelCount = 2

	bytesPerSample = 2
	frameBytes     = ChannelCount * bytesPerSample
	amplitude      = 0.25
)

// ErrUnsupported is returned for sounds that cannot be played.
var ErrUnsupported = errors.New("sound unsupported")

// Noise is an endless stream of signed 16-bit little-endian stereo PCM.
type Noise struct {
	kind   engine.FocusSound
	random *rand.Rand

	brown    float64
	lowpass  float64
	dropGain float64
	pending  []byte
}

// NewNoise returns a generator for sound. The same seed yields the same stream.
func NewNoise(sound engine.FocusSound, seed uint64) (*Noise, error) {
	switch sound {
	case engine.FocusSoundWhite, engine.FocusSoundBrown, engine.FocusSoundRain:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, sound)
	}
	return &Noise{kind: sound, random: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, nil
}

// Read fills p with PCM frames. It never returns an error.
func (noise *Noise) Read(p []byte) (int, error) {
	written := copy(p, noise.pending)
	noise.pending = noise.pending[written:]

	var frame [frameBytes]byte
	for written < len(p) {
		value := int16(math.Round(clamp(noise.next()) * math.MaxInt16))
		for channel := 0; channel < ChannelCount; channel++ {
			binary.LittleEndian.PutUint16(frame[channel*bytesPerSample:], uint16(value))
		}
		n := copy(p[written:], frame[:])
		if n < frameBytes {
			noise.pending = append(noise.pending[:0], frame[n:]...)
		}
		written += n
	}
	return written, nil
}

func (noise *Noise) white() float64 {
	return noise.random.Float64()*2 - 1
}

func (noise *Noise) next() float64 {
	switch noise.kind {
	case engine.FocusSoundBrown:
		noise.brown = (noise.brown + 0.02*noise.white()) / 1.02
		return 3.5 * noise.brown
	case engine.FocusSoundRain:
		noise.lowpass += 0.3 * (noise.white() - noise.lowpass)
		if noise.random.Float64() < 0.0004 {
			noise.dropGain = 0.6 + 0.4*noise.random.Float64()
		}
		drop := noise.dropGain * noise.white()
		noise.dropGain *= 0.995
		return amplitude * (noise.lowpass + drop)
	default:
		return amplitude * noise.white()
	}
}

func clamp(value float64) float64 {
	return math.Max(-1, math.Min(1, value))
}
