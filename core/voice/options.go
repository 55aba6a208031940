// Package voice defines the listening options shared by voice activity
// detector implementations feeding the companion.
package voice

import "github.com/okvist/companion-core/core/audio"

type ListenOptions struct {
	SpeakingStartedCallback func()
	SpeakingEndedCallback   func()

	EncodingInfo audio.EncodingInfo
}

type ListenOption func(*ListenOptions)

func WithSpeakingStartedCallback(callback func()) ListenOption {
	return func(o *ListenOptions) {
		o.SpeakingStartedCallback = callback
	}
}

func WithSpeakingEndedCallback(callback func()) ListenOption {
	return func(o *ListenOptions) {
		o.SpeakingEndedCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) ListenOption {
	return func(o *ListenOptions) {
		o.EncodingInfo = encodingInfo
	}
}
