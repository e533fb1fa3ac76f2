package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"nsguard/internal/source"
)

// clampOffset converts n to a file offset, saturating at the uint32 range.
func clampOffset(n int) uint32 {
	if n <= 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return ^uint32(0)
	}
	return v
}

// lineBounds returns the byte range of line, excluding its newline.
// Lines past the end collapse to the end of the file.
func lineBounds(file *source.File, line int) (start, end uint32) {
	size := clampOffset(len(file.Content))
	if line > len(file.LineIdx) {
		return size, size
	}
	if line > 0 {
		start = file.LineIdx[line-1] + 1
	}
	end = size
	if line < len(file.LineIdx) {
		end = file.LineIdx[line]
	}
	return start, end
}

// utf16Width is the number of UTF-16 code units r occupies.
func utf16Width(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// offsetAt maps a UTF-16 line/character position to a byte offset. A
// character inside a surrogate pair snaps back to the start of the rune.
func offsetAt(file *source.File, pos position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	off, end := lineBounds(file, pos.Line)
	for units := 0; off < end; {
		r, size := utf8.DecodeRune(file.Content[off:end])
		units += utf16Width(r)
		if units > pos.Character {
			break
		}
		off += clampOffset(size)
	}
	return off
}

// positionAt maps a byte offset to a UTF-16 line/character position.
func positionAt(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	offset = min(offset, clampOffset(len(file.Content)))
	line := sort.Search(len(file.LineIdx), func(i int) bool { return file.LineIdx[i] >= offset })
	start, _ := lineBounds(file, line)
	chars := 0
	for _, r := range string(file.Content[min(start, offset):offset]) {
		chars += utf16Width(r)
	}
	return position{Line: line, Character: chars}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{Start: positionAt(file, span.Start), End: positionAt(file, span.End)}
}

func spanForRange(file *source.File, r lspRange) source.Span {
	start := offsetAt(file, r.Start)
	end := max(offsetAt(file, r.End), start)
	return source.Span{File: file.ID, Start: start, End: end}
}
