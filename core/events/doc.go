// Package events defines the typed companion event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - cue_request.*
//   - cue_playback.*
//   - connectivity.*
//   - expression.*
//
// cue_request events
//
//   - CueRequestAccepted (cue_request.accepted): a cue request was admitted
//     and queued as a new record.
//   - CueRequestMerged (cue_request.merged): a cue request updated an
//     already-queued record of the same type in place.
//   - CueRequestRejected (cue_request.rejected): a cue request was dropped
//     by the admission policy.
//
// cue_playback events
//
//   - CuePlaybackStarted (cue_playback.started): the worker dispatched a cue
//     to the audio device; carries the requested and resolved cue types.
//   - CuePlaybackEnded (cue_playback.ended): the device confirmed the cue
//     finished.
//   - CuePlaybackFailed (cue_playback.failed): the cue was abandoned, either
//     because resolution failed or the device refused playback.
//   - CuePlaybackStopped (cue_playback.stopped): the cue was superseded by a
//     stop request before or during playback.
//
// connectivity events
//
//   - ConnectivityChanged (connectivity.changed): the connectivity flag
//     flipped on an edge transition.
//
// expression events
//
//   - ExpressionEmotionChanged (expression.emotion_changed): an emotion
//     animation was pushed to the renderer.
//   - ExpressionIconChanged (expression.icon_changed): a system icon was
//     pushed to the renderer.
package events
