package stripe

import (
	"strings"
)

// Swipe is one card read.
type Swipe struct {
	// Raw is every byte received, including the trailer.
	Raw []byte
	// Track is the track data between and including the sentinels.
	Track string
	// PAN is the account number, empty if the track could not be parsed.
	PAN string
	// Expiry is YYMM.
	Expiry string
}

// ParseSwipe parses a complete swipe buffer. Track 2 data ";PAN=YYMM...?"
// fills PAN and Expiry; other content only fills Raw and Track.
func ParseSwipe(raw []byte) Swipe {
	s := Swipe{Raw: append([]byte(nil), raw...)}
	if len(raw) < 2+swipeTrailer {
		return s
	}
	s.Track = string(raw[:len(raw)-swipeTrailer])
	data := strings.TrimSuffix(strings.TrimPrefix(s.Track, string(SwipeStart)), string(SwipeEnd))
	sep := strings.IndexByte(data, '=')
	if sep < 12 || sep > 19 || !digits(data[:sep]) {
		return s
	}
	if rest := data[sep+1:]; len(rest) >= 4 && digits(rest[:4]) {
		s.PAN, s.Expiry = data[:sep], rest[:4]
	}
	return s
}

// MaskedPAN keeps the last four digits only.
func (s *Swipe) MaskedPAN() string {
	if len(s.PAN) < 4 {
		return ""
	}
	return strings.Repeat("*", len(s.PAN)-4) + s.PAN[len(s.PAN)-4:]
}

func digits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
