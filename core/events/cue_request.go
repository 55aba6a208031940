package events

const (
	// KindCueRequestAccepted identifies admissions that queued a new record.
	KindCueRequestAccepted Kind = "cue_request.accepted"
	// KindCueRequestMerged identifies admissions folded into a queued record.
	KindCueRequestMerged Kind = "cue_request.merged"
	// KindCueRequestRejected identifies admissions dropped by policy.
	KindCueRequestRejected Kind = "cue_request.rejected"
)

// CueRequestAccepted marks a cue request admitted as a new record.
type CueRequestAccepted struct {
	Base
	CueType string
}

// NewCueRequestAccepted creates a cue request accepted event.
func NewCueRequestAccepted(cueType string) CueRequestAccepted {
	return CueRequestAccepted{Base: NewBase(KindCueRequestAccepted), CueType: cueType}
}

// CueRequestMerged marks a cue request merged into an existing record.
type CueRequestMerged struct {
	Base
	CueType string
}

// NewCueRequestMerged creates a cue request merged event.
func NewCueRequestMerged(cueType string) CueRequestMerged {
	return CueRequestMerged{Base: NewBase(KindCueRequestMerged), CueType: cueType}
}

// CueRequestRejected marks a cue request dropped by the admission policy.
type CueRequestRejected struct {
	Base
	CueType string
}

// NewCueRequestRejected creates a cue request rejected event.
func NewCueRequestRejected(cueType string) CueRequestRejected {
	return CueRequestRejected{Base: NewBase(KindCueRequestRejected), CueType: cueType}
}
