package companion

import (
	"sync"
	"time"

	"github.com/okvist/companion-core/core/cues"
)

// playbackState is the shared companion state. It is guarded by its own
// mutex, distinct from the cue queue's, so state readers never contend with
// queue traffic and neither lock is ever held while doing I/O.
type playbackState struct {
	mu sync.Mutex

	isBegun     bool
	isPaused    bool
	isConnected bool
	isSpeaking  bool

	// playing is the cue type currently dispatched to the audio device,
	// set before the play call is issued and cleared only once the cue is
	// confirmed finished or superseded.
	playing      cues.CueType
	playingSince time.Time
}

// stateSnapshot is a point-in-time copy used for admission decisions.
type stateSnapshot struct {
	isBegun      bool
	isPaused     bool
	isConnected  bool
	isSpeaking   bool
	playing      cues.CueType
	playingSince time.Time
}

func (s *playbackState) snapshot() stateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return stateSnapshot{
		isBegun:      s.isBegun,
		isPaused:     s.isPaused,
		isConnected:  s.isConnected,
		isSpeaking:   s.isSpeaking,
		playing:      s.playing,
		playingSince: s.playingSince,
	}
}

func (s *playbackState) setBegun(begun bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isBegun = begun
}

func (s *playbackState) begun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isBegun
}

func (s *playbackState) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isPaused = paused
}

func (s *playbackState) paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPaused
}

// setConnected flips the connectivity flag and reports the previous value
// so callers can act on edges only.
func (s *playbackState) setConnected(connected bool) (previous bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous = s.isConnected
	s.isConnected = connected
	return previous
}

func (s *playbackState) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isConnected
}

func (s *playbackState) setSpeaking(speaking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isSpeaking = speaking
}

func (s *playbackState) speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSpeaking
}

func (s *playbackState) setPlaying(cueType cues.CueType, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = cueType
	s.playingSince = at
}

// clearPlaying resets the playing marker only if it still belongs to
// cueType, so a concurrent supersede is not undone.
func (s *playbackState) clearPlaying(cueType cues.CueType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing == cueType {
		s.playing = cues.TypeNone
		s.playingSince = time.Time{}
	}
}
