//go:build cgo

// Package portaudio implements clip playback through blocking PortAudio
// stream writes. Clips are raw s16le PCM files.
package portaudio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/google/uuid"
	"github.com/okvist/companion-core/core/audio"
	"github.com/okvist/companion-core/core/cues"
)

// Player writes clips to a single mono output stream. Each Play runs its
// own writer goroutine; writes are serialized on the stream mutex so clips
// never interleave.
type Player struct {
	bufferSize int
	stream     *portaudio.Stream
	out        []int16

	streamMu sync.Mutex

	cancelMu  sync.Mutex
	cancelled map[string]chan struct{}
}

func NewPlayer(bufferSize int) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, audio.DefaultSampleRate, bufferSize, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start PortAudio stream: %w", err)
	}

	return &Player{
		bufferSize: bufferSize,
		stream:     stream,
		out:        out,
		cancelled:  map[string]chan struct{}{},
	}, nil
}

// Play loads the clip and starts a writer goroutine. Done fires when the
// final chunk is written or the playback is stopped mid-clip.
func (p *Player) Play(clip cues.Clip) (*audio.Playback, error) {
	data, err := os.ReadFile(clip.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip %q: %w", clip.Path, err)
	}

	playbackID := uuid.NewString()
	done := make(chan error, 1)
	cancel := make(chan struct{})

	p.cancelMu.Lock()
	p.cancelled[playbackID] = cancel
	p.cancelMu.Unlock()

	go func() {
		defer func() {
			p.cancelMu.Lock()
			delete(p.cancelled, playbackID)
			p.cancelMu.Unlock()
		}()
		done <- p.write(data, cancel)
	}()

	return &audio.Playback{ID: playbackID, Done: done}, nil
}

func (p *Player) write(data []byte, cancel <-chan struct{}) error {
	p.streamMu.Lock()
	defer p.streamMu.Unlock()

	silence := p.EncodingInfo().SilenceValue()
	chunkSize := p.bufferSize * 2
	for offset := 0; offset < len(data); offset += chunkSize {
		select {
		case <-cancel:
			return audio.ErrPlaybackStopped
		default:
		}

		end := min(offset+chunkSize, len(data))
		chunk := data[offset:end]
		if len(chunk) < chunkSize {
			// PortAudio writes whole buffers; the last partial chunk is
			// padded with silence.
			padded := make([]byte, chunkSize)
			for i := range padded {
				padded[i] = silence
			}
			copy(padded, chunk)
			chunk = padded
		}

		if err := binary.Read(bytes.NewBuffer(chunk), binary.LittleEndian, p.out); err != nil {
			return fmt.Errorf("failed to frame clip chunk: %w", err)
		}
		if err := p.stream.Write(); err != nil {
			log.Printf("Failed to write to PortAudio stream: %v", err)
			return fmt.Errorf("failed to write to PortAudio stream: %w", err)
		}
	}

	return nil
}

// Stop aborts the identified playback before its next chunk write. An
// unknown id is not an error; the playback may simply have finished.
func (p *Player) Stop(id string) error {
	p.cancelMu.Lock()
	defer p.cancelMu.Unlock()

	if cancel, ok := p.cancelled[id]; ok {
		close(cancel)
		delete(p.cancelled, id)
	}
	return nil
}

func (p *Player) Close() {
	p.cancelMu.Lock()
	for id, cancel := range p.cancelled {
		close(cancel)
		delete(p.cancelled, id)
	}
	p.cancelMu.Unlock()

	p.streamMu.Lock()
	defer p.streamMu.Unlock()
	p.stream.Close()
	_ = portaudio.Terminate()
}

func (p *Player) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
