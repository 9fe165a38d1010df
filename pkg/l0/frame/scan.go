package frame

// Status is the verdict of a Predicate on bytes received so far.
type Status int

const (
	// Incomplete means more bytes are needed.
	Incomplete Status = iota
	// Complete means the bytes form a whole frame.
	Complete
	// Invalid means the bytes can never become a valid frame.
	Invalid
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Incomplete:
		return "incomplete"
	case Complete:
		return "complete"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

// Predicate classifies accumulated bytes.
type Predicate func(buf []byte) Status

// Fixed completes once exactly n bytes are received.
func Fixed(n int) Predicate {
	return func(buf []byte) Status {
		switch {
		case len(buf) < n:
			return Incomplete
		case len(buf) == n:
			return Complete
		}
		return Invalid
	}
}

// Delimited completes when buf starts with start and ends with end followed
// by trailer more bytes. Any other leading byte is Invalid.
func Delimited(start, end byte, trailer int) Predicate {
	return func(buf []byte) Status {
		if len(buf) == 0 {
			return Incomplete
		}
		if buf[0] != start {
			return Invalid
		}
		if pos := len(buf) - 1 - trailer; pos > 0 && buf[pos] == end {
			return Complete
		}
		return Incomplete
	}
}
