package companion

import "github.com/okvist/companion-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts BeginOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.CuePlaybackStarted:
			if opts.onCueStarted != nil {
				opts.onCueStarted(typedEvent.ResolvedType)
			}
		case events.CuePlaybackEnded:
			if opts.onCueEnded != nil {
				opts.onCueEnded(typedEvent.CueType)
			}
		case events.ConnectivityChanged:
			if opts.onConnectivityChanged != nil {
				opts.onConnectivityChanged(typedEvent.Connected)
			}
		}
	}
}
