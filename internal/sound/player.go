package sound

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"pomodesk/internal/core/engine"
)

// Stream is a sound that is currently playing.
type Stream interface {
	Stop() error
}

// Backend plays PCM streams in the format produced by Noise.
type Backend interface {
	Play(source io.Reader) (Stream, error)
}

// OtoBackend plays through the system audio device.
type OtoBackend struct {
	ctx *oto.Context
}

// NewOtoBackend opens the audio device. Only one may exist per process.
func NewOtoBackend() (Backend, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open audio device: %v", ErrUnsupported, err)
	}
	<-ready
	return &OtoBackend{ctx: ctx}, nil
}

// Play starts source and returns immediately.
func (backend *OtoBackend) Play(source io.Reader) (Stream, error) {
	player := backend.ctx.NewPlayer(source)
	player.Play()
	if err := player.Err(); err != nil {
		_ = player.Close()
		return nil, fmt.Errorf("start playback: %w", err)
	}
	return otoStream{player: player}, nil
}

type otoStream struct {
	player *oto.Player
}

func (stream otoStream) Stop() error {
	stream.player.Pause()
	return stream.player.Close()
}

// FocusPlayer is an engine sink that plays the selected focus sound while a
// work session runs.
type FocusPlayer struct {
	mu          sync.Mutex
	newBackend  func() (Backend, error)
	backend     Backend
	opening     bool
	disabled    bool
	wanted      engine.FocusSound
	playing     engine.FocusSound
	stream      Stream
	seed        uint64
	lastVersion uint64
	logger      *log.Logger
}

// NewFocusPlayer creates a player. The backend is opened by Open, or in the
// background on first use.
func NewFocusPlayer(newBackend func() (Backend, error), logger *log.Logger) *FocusPlayer {
	if logger == nil {
		logger = log.Default()
	}
	return &FocusPlayer{newBackend: newBackend, seed: uint64(time.Now().UnixNano()), logger: logger}
}

// Wanted returns the sound that should be audible for snapshot.
func Wanted(snapshot engine.Snapshot) engine.FocusSound {
	if !snapshot.Pomodoro.Running || snapshot.Pomodoro.Mode != engine.ModeWork {
		return engine.FocusSoundOff
	}
	return snapshot.FocusSound
}

// Render implements engine.Sink. It never waits for the audio device.
func (player *FocusPlayer) Render(snapshot engine.Snapshot) error {
	player.mu.Lock()
	defer player.mu.Unlock()

	if snapshot.Version != 0 && snapshot.Version < player.lastVersion {
		return nil
	}
	player.lastVersion = snapshot.Version
	player.wanted = Wanted(snapshot)
	return player.syncLocked()
}

// Open opens the audio backend and blocks until it is ready. Calling it again,
// or while a background open is in flight, does nothing.
func (player *FocusPlayer) Open() error {
	player.mu.Lock()
	if player.backend != nil || player.disabled || player.opening {
		player.mu.Unlock()
		return nil
	}
	player.opening = true
	player.mu.Unlock()
	return player.finishOpen()
}

func (player *FocusPlayer) finishOpen() error {
	backend, err := player.newBackend()

	player.mu.Lock()
	defer player.mu.Unlock()
	player.opening = false
	if err != nil {
		player.disabled = true
		return fmt.Errorf("focus sound disabled: %w", err)
	}
	player.backend = backend
	return player.syncLocked()
}

func (player *FocusPlayer) syncLocked() error {
	wanted := player.wanted
	if wanted == player.playing {
		return nil
	}
	if err := player.stopLocked(); err != nil {
		return err
	}
	if wanted == engine.FocusSoundOff || player.disabled {
		return nil
	}
	if player.backend == nil {
		if !player.opening {
			player.opening = true
			go func() {
				if err := player.finishOpen(); err != nil {
					player.logger.Warn("open audio device", "err", err)
				}
			}()
		}
		return nil
	}

	player.seed++
	noise, err := NewNoise(wanted, player.seed)
	if err != nil {
		return err
	}
	stream, err := player.backend.Play(noise)
	if err != nil {
		return fmt.Errorf("play %s: %w", wanted, err)
	}
	player.stream, player.playing = stream, wanted
	player.logger.Debug("focus sound started", "sound", wanted)
	return nil
}

// Playing returns the sound currently audible.
func (player *FocusPlayer) Playing() engine.FocusSound {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.playing
}

// Close stops playback.
func (player *FocusPlayer) Close() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.stopLocked()
}

func (player *FocusPlayer) stopLocked() error {
	if player.stream == nil {
		return nil
	}
	stream := player.stream
	player.stream, player.playing = nil, engine.FocusSoundOff
	if err := stream.Stop(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stop focus sound: %w", err)
	}
	player.logger.Debug("focus sound stopped")
	return nil
}
