package expression

import "testing"

func TestLookupEmotionTag(t *testing.T) {
	cases := []struct {
		tag     string
		mapping Mapping
	}{
		{"neutral", Mapping{Emotion: EmotionSlowBlink}},
		{"happy", Mapping{Emotion: EmotionHappy}},
		{"thinking", Mapping{Emotion: EmotionFastBlink, Icon: IconThinking}},
		{"sleepy", Mapping{Emotion: EmotionSleep, Icon: IconSleep}},
	}

	for _, tc := range cases {
		mapping, ok := LookupEmotionTag(tc.tag)
		if !ok {
			t.Fatalf("expected tag %q to be known", tc.tag)
		}
		if mapping != tc.mapping {
			t.Fatalf("tag %q: expected %+v, got %+v", tc.tag, tc.mapping, mapping)
		}
	}
}

func TestLookupEmotionTagUnknown(t *testing.T) {
	if _, ok := LookupEmotionTag("not-a-tag"); ok {
		t.Fatalf("expected unknown tag to miss")
	}
	if _, ok := LookupEmotionTag(""); ok {
		t.Fatalf("expected empty tag to miss")
	}
}

func TestLookupSystemIcon(t *testing.T) {
	icon, ok := LookupSystemIcon("server_connecting")
	if !ok || icon != IconServerConnecting {
		t.Fatalf("expected server_connecting icon, got %q (%v)", icon, ok)
	}
	if _, ok := LookupSystemIcon("not-an-icon"); ok {
		t.Fatalf("expected unknown icon name to miss")
	}
}
