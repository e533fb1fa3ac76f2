package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{
			name:     "shift normal span left by 5",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    5,
			expected: Span{File: 1, Start: 5, End: 15},
		},
		{
			name:     "shift equals start - boundary case",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    10,
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "shift larger than start - returns original",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    15,
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.ShiftLeft(tt.shift); got != tt.expected {
				t.Errorf("ShiftLeft(%d) = %v, want %v", tt.shift, got, tt.expected)
			}
		})
	}
}

func TestSpan_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"overlap", Span{Start: 0, End: 5}, Span{Start: 4, End: 8}, true},
		{"touching", Span{Start: 0, End: 5}, Span{Start: 5, End: 8}, false},
		{"disjoint", Span{Start: 0, End: 2}, Span{Start: 5, End: 8}, false},
		{"empty inside", Span{Start: 3, End: 3}, Span{Start: 0, End: 8}, true},
		{"empty at edge", Span{Start: 8, End: 8}, Span{Start: 0, End: 8}, true},
		{"other file", Span{File: 1, Start: 0, End: 5}, Span{File: 2, Start: 0, End: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSpan_Sub(t *testing.T) {
	s := Span{File: 3, Start: 100, End: 140}
	got := s.Sub(4, 9)
	want := Span{File: 3, Start: 104, End: 109}
	if got != want {
		t.Fatalf("Sub = %v, want %v", got, want)
	}
}
