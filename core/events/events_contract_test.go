package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "cue request accepted", event: NewCueRequestAccepted("wake"), expected: KindCueRequestAccepted},
		{name: "cue request merged", event: NewCueRequestMerged("wake"), expected: KindCueRequestMerged},
		{name: "cue request rejected", event: NewCueRequestRejected("wake"), expected: KindCueRequestRejected},
		{name: "cue playback started", event: NewCuePlaybackStarted("acknowledge", "ack_here"), expected: KindCuePlaybackStarted},
		{name: "cue playback ended", event: NewCuePlaybackEnded("wake"), expected: KindCuePlaybackEnded},
		{name: "cue playback failed", event: NewCuePlaybackFailed("wake", "device refused"), expected: KindCuePlaybackFailed},
		{name: "cue playback stopped", event: NewCuePlaybackStopped("wake"), expected: KindCuePlaybackStopped},
		{name: "connectivity changed", event: NewConnectivityChanged(true), expected: KindConnectivityChanged},
		{name: "expression emotion changed", event: NewExpressionEmotionChanged("happy"), expected: KindExpressionEmotionChanged},
		{name: "expression icon changed", event: NewExpressionIconChanged("wifi_disconnected"), expected: KindExpressionIconChanged},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected constructor to stamp event time")
			}
		})
	}
}

func TestPlaybackStartedCarriesResolvedVariant(t *testing.T) {
	event := NewCuePlaybackStarted("farewell", "farewell_bye")

	if event.CueType == event.ResolvedType {
		t.Fatalf("expected requested and resolved types to differ for family dispatch, both were %q", event.CueType)
	}
}
