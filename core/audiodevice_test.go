package companion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okvist/companion-core/core/cues"
)

func TestHeadlessPlaybackCompletesAfterNominalDuration(t *testing.T) {
	device := newAudioDevice(nil)

	start := time.Now()
	playback, err := device.Play(cues.Clip{Path: "assets/wake.pcm", Duration: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case playErr := <-playback.Done:
		if playErr != nil {
			t.Fatalf("unexpected playback error: %v", playErr)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected simulated completion")
	}
	if time.Since(start) < 30*time.Millisecond {
		t.Fatalf("expected completion no earlier than the nominal duration")
	}
}

func TestHeadlessPlaybackDerivesDurationFromClipBytes(t *testing.T) {
	// 3200 bytes of s16le at the default 16kHz rate is 100ms of audio.
	path := filepath.Join(t.TempDir(), "clip.pcm")
	if err := os.WriteFile(path, make([]byte, 3200), 0o644); err != nil {
		t.Fatalf("failed to write clip file: %v", err)
	}

	device := newAudioDevice(nil)
	start := time.Now()
	playback, err := device.Play(cues.Clip{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-playback.Done:
	case <-time.After(time.Second):
		t.Fatalf("expected simulated completion")
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("expected completion derived from clip bytes, finished after %v", elapsed)
	}
}

func TestHeadlessPlaybackWithoutDurationOrFileCompletesImmediately(t *testing.T) {
	device := newAudioDevice(nil)

	playback, err := device.Play(cues.Clip{Path: "does/not/exist.pcm"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-playback.Done:
	case <-time.After(time.Second):
		t.Fatalf("expected immediate completion for unknown clip length")
	}
}
