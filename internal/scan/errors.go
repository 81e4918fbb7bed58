package scan

import (
	"fmt"

	"modecount/internal/histogram"
)

// MaxValue is the largest value a line may hold.
const MaxValue = histogram.Size - 1

// ParseError reports a byte outside '0'..'9' and '\n'. An empty line is
// reported as a ParseError on its terminator.
type ParseError struct {
	Offset int64 // absolute offset of the offending byte
	Byte   byte
}

func (e *ParseError) Error() string {
	if e.Byte == '\n' {
		return fmt.Sprintf("scan: empty line at offset %d", e.Offset)
	}
	return fmt.Sprintf("scan: unexpected byte %q at offset %d", e.Byte, e.Offset)
}

// RangeError reports a number that does not fit the histogram. Scanning stops
// as soon as the digits read so far exceed MaxValue, so Value may be a prefix
// of the full number.
type RangeError struct {
	Offset int64 // absolute offset of the first byte of the line
	Value  uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("scan: number at offset %d exceeds %d (read %d)", e.Offset, MaxValue, e.Value)
}
