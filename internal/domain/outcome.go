package domain

// BatchResult classifies the overall outcome of one transmission batch.
type BatchResult int

const (
	// BatchDelivered means every message went out. An empty batch
	// counts: there was nothing to fail.
	BatchDelivered BatchResult = iota
	// BatchPartial means a send failed mid-batch; FailedIndex points at
	// the message that failed, everything before it was delivered, and
	// nothing after it was attempted.
	BatchPartial
	// BatchNotAttempted means the transport session could not be opened
	// and no message was sent.
	BatchNotAttempted
)

func (r BatchResult) String() string {
	switch r {
	case BatchPartial:
		return "partial"
	case BatchNotAttempted:
		return "not attempted"
	default:
		return "delivered"
	}
}

// SendOutcome reports what happened to a message batch. Delivery is
// at-most-once per message and best-effort across the batch: messages
// sent before a failure are not rolled back.
type SendOutcome struct {
	Result      BatchResult
	Delivered   int   // messages handed to the transport
	FailedIndex int   // zero-based index of the failed message, -1 when none
	Err         error // first failure, nil on full delivery
}

// Success reports full delivery.
func (o SendOutcome) Success() bool {
	return o.Result == BatchDelivered
}
