package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one File.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether off lies inside the span.
func (s Span) Contains(off uint32) bool {
	return s.Start <= off && off < s.End
}

// Intersects reports whether two spans of the same file share at least one
// byte, or whether an empty span sits inside (or at the edge of) the other.
func (s Span) Intersects(other Span) bool {
	if s.File != other.File {
		return false
	}
	if s.Empty() || other.Empty() {
		return s.Start <= other.End && other.Start <= s.End
	}
	return s.Start < other.End && other.Start < s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// At returns an empty span at off.
func (s Span) At(off uint32) Span {
	return Span{File: s.File, Start: off, End: off}
}

// Sub returns the span of text[from:to] relative to s.Start.
func (s Span) Sub(from, to uint32) Span {
	return Span{File: s.File, Start: s.Start + from, End: s.Start + to}
}

func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}
