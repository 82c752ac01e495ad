// internal/util/util.go
package util

import (
	"os"
	"strings"
	"unicode/utf8"
)

// WriteFile writes data to a file with 0o644 permissions.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// FirstLine returns the first line of a text block truncated to width,
// for single-row previews of multi-line outputs.
func FirstLine(text string, width int) string {
	line := text
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSuffix(line, "\r")
	return TruncateRunes(line, width)
}

// WrapToWidth wraps text to a width in runes, breaking words longer than a
// full line. Blank lines are preserved.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur strings.Builder
		count := 0
		flush := func() {
			out = append(out, cur.String())
			cur.Reset()
			count = 0
		}
		for _, w := range words {
			wLen := utf8.RuneCountInString(w)
			if count > 0 && count+1+wLen > width {
				flush()
			}
			if wLen > width {
				if count > 0 {
					flush()
				}
				r := []rune(w)
				for len(r) > width {
					out = append(out, string(r[:width]))
					r = r[width:]
				}
				cur.WriteString(string(r))
				count = len(r)
				continue
			}
			if count > 0 {
				cur.WriteByte(' ')
				count++
			}
			cur.WriteString(w)
			count += wLen
		}
		if cur.Len() > 0 {
			flush()
		}
	}
	return strings.Join(out, "\n")
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
