//go:build cgo

// Package miniaudio implements clip playback on the malgo (miniaudio)
// backend. Clips are raw s16le PCM files fed through one persistent
// playback device.
package miniaudio

import (
	"fmt"
	"os"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/google/uuid"
	"github.com/okvist/companion-core/core/audio"
	"github.com/okvist/companion-core/core/cues"
)

// Player owns one malgo context and playback device for its lifetime.
// Played clips are appended to a pending buffer the device callback drains;
// a completion is registered at each clip's end position and fired once the
// device has consumed past it.
type Player struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	mu sync.Mutex

	audioMu     sync.Mutex
	pending     []byte
	completions []completion
}

type completion struct {
	id       string
	position int
	done     chan error
}

func NewPlayer() (*Player, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	player := &Player{audioContext: audioCtx}
	if err := player.initDevice(); err != nil {
		player.Close()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	if err := player.device.Start(); err != nil {
		player.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	return player, nil
}

func (p *Player) initDevice() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	p.config = malgo.DefaultDeviceConfig(malgo.Playback)
	p.config.SampleRate = sampleRate
	p.config.Playback.Format = format
	p.config.Playback.Channels = uint32(channels)
	p.config.Alsa.NoMMap = 1
	p.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	p.config.Periods = 4

	var err error
	if p.device, err = malgo.InitDevice(
		p.audioContext.Context,
		p.config,
		malgo.DeviceCallbacks{Data: p.processAudio(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

// Play loads the clip and schedules it behind whatever is already buffered.
// Done fires once the device has consumed the clip's bytes.
func (p *Player) Play(clip cues.Clip) (*audio.Playback, error) {
	p.mu.Lock()
	device := p.device
	p.mu.Unlock()
	if device == nil {
		return nil, fmt.Errorf("device not initialized")
	}

	data, err := os.ReadFile(clip.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip %q: %w", clip.Path, err)
	}

	playbackID := uuid.NewString()
	done := make(chan error, 1)

	p.audioMu.Lock()
	p.pending = append(p.pending, data...)
	p.completions = append(p.completions, completion{
		id:       playbackID,
		position: len(p.pending),
		done:     done,
	})
	p.audioMu.Unlock()

	return &audio.Playback{ID: playbackID, Done: done}, nil
}

// Stop aborts the identified playback and everything buffered behind it.
// An unknown id is not an error; the playback may simply have finished.
func (p *Player) Stop(id string) error {
	p.audioMu.Lock()
	defer p.audioMu.Unlock()

	aborting := false
	kept := p.completions[:0]
	for _, pending := range p.completions {
		if pending.id == id {
			aborting = true
		}
		if aborting {
			pending.done <- audio.ErrPlaybackStopped
			continue
		}
		kept = append(kept, pending)
	}
	p.completions = kept

	if aborting {
		// The aborted clip is the buffer tail up from the last surviving
		// completion boundary.
		cut := 0
		if len(kept) > 0 {
			cut = kept[len(kept)-1].position
		}
		if cut < len(p.pending) {
			p.pending = p.pending[:cut]
		}
	}
	return nil
}

func (p *Player) Close() {
	p.mu.Lock()
	if p.device != nil {
		p.device.Uninit()
		p.device = nil
	}
	if p.audioContext != nil {
		_ = p.audioContext.Uninit()
		p.audioContext.Free()
		p.audioContext = nil
	}
	p.mu.Unlock()

	p.audioMu.Lock()
	for _, pending := range p.completions {
		pending.done <- audio.ErrPlaybackStopped
	}
	p.completions = nil
	p.pending = nil
	p.audioMu.Unlock()
}

func (p *Player) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		p.audioMu.Lock()
		defer p.audioMu.Unlock()

		consumed := min(need, len(p.pending))
		copy(pOutput, p.pending[:consumed])
		p.pending = p.pending[consumed:]

		p.advanceCompletions(consumed)
	}
}

// advanceCompletions shifts completion boundaries by the consumed byte
// count and fires any that the device has played past. Callers hold audioMu.
func (p *Player) advanceCompletions(consumed int) {
	finished := 0
	for i, pending := range p.completions {
		if pending.position > consumed {
			p.completions[i].position -= consumed
		} else {
			finished++
		}
	}
	if finished == 0 {
		return
	}

	toFire := make([]completion, finished)
	copy(toFire, p.completions[:finished])
	p.completions = p.completions[finished:]
	go func() {
		for _, fired := range toFire {
			fired.done <- nil
		}
	}()
}

func (p *Player) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
