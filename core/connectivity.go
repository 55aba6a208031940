package companion

import (
	"github.com/okvist/companion-core/core/cues"
	"github.com/okvist/companion-core/core/events"
	"github.com/okvist/companion-core/core/expression"
)

// connectivityMonitor turns connectivity level reports into edge-triggered
// cue traffic. The state flag is flipped under the state mutex before any
// cue request goes out, so readers never observe a stale flag while the
// resulting cue is already queued.
type connectivityMonitor struct {
	state      *playbackState
	expression *expressionOutput
	emit       eventEmitter

	requestCue func(record cues.Record) Decision
	stopCue    func(cueType cues.CueType)
}

// onChanged handles one connectivity report. Level repeats are ignored;
// only transitions produce cues.
func (m *connectivityMonitor) onChanged(connected bool) {
	previous := m.state.setConnected(connected)
	if previous == connected {
		return
	}

	m.emit(events.NewConnectivityChanged(connected))

	if connected {
		// Reconnection supersedes the repeating startup prompt. A queued
		// disconnection cue is left alone: during a flap it still plays,
		// immediately followed by the confirmation queued here.
		m.stopCue(cues.TypeNeedsNetwork)
		m.requestCue(cues.Record{Type: cues.TypeNetworkConnected, RepeatCount: 1})
		m.expression.ShowSystemIcon(expression.IconServerConnecting)
		return
	}

	m.requestCue(cues.Record{Type: cues.TypeNetworkDisconnected, RepeatCount: 1})
	m.expression.ShowSystemIcon(expression.IconWifiDisconnected)
}
