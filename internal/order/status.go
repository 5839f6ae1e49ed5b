package order

type Status string

const (
	StatusCreated   Status = "created"
	StatusProcessed Status = "processed"
	StatusConfirmed Status = "confirmed"
	// StatusFailed marks an order whose processing failed. It can be
	// processed again.
	StatusFailed Status = "failed"
)

// Processable reports whether Process may move the order forward.
func (s Status) Processable() bool {
	return s == StatusCreated || s == StatusFailed
}

// Done reports whether enrollments have been granted.
func (s Status) Done() bool {
	return s == StatusProcessed || s == StatusConfirmed
}
