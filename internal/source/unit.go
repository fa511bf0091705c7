// SPDX-License-Identifier: MPL-2.0

package source

import (
	"io"
	"strings"
)

const (
	// IncludeMarker is the literal prefix of an include directive.
	// Matching is case-sensitive and tolerates no leading whitespace.
	IncludeMarker = "#include"

	// Extension is the recognized script file extension.
	Extension = ".gsc"
)

const (
	// LineBody is any line that is not an include directive.
	LineBody LineKind = iota
	// LineInclude is a line starting with IncludeMarker.
	LineInclude
)

type (
	// LineKind classifies one source line.
	LineKind int

	// MergedUnit is the hoisted form of all fragments: include directives
	// first, then body lines, each in fragment order and then in-file order.
	// Every input line lands in exactly one of the two slices.
	MergedUnit struct {
		Includes []string
		Body     []string
		// Fragments lists the fragment file names in concatenation order.
		Fragments []string
	}
)

// String returns "Include" or "Body".
func (k LineKind) String() string {
	if k == LineInclude {
		return "Include"
	}
	return "Body"
}

// Classify reports whether line is an include directive.
func Classify(line string) LineKind {
	if strings.HasPrefix(line, IncludeMarker) {
		return LineInclude
	}
	return LineBody
}

// AddFragment splits text into lines and appends each to Includes or Body.
// Duplicate include directives are kept verbatim.
func (u *MergedUnit) AddFragment(name, text string) {
	u.Fragments = append(u.Fragments, name)
	for _, line := range splitLines(text) {
		if Classify(line) == LineInclude {
			u.Includes = append(u.Includes, line)
		} else {
			u.Body = append(u.Body, line)
		}
	}
}

// Len returns the total number of lines in the unit.
func (u *MergedUnit) Len() int {
	return len(u.Includes) + len(u.Body)
}

// String serializes the unit: every include line followed by a newline, one
// blank line, then every body line followed by a newline.
func (u *MergedUnit) String() string {
	var sb strings.Builder
	for _, line := range u.Includes {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	for _, line := range u.Body {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the serialized unit to w.
func (u *MergedUnit) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, u.String())
	return int64(n), err
}

// splitLines splits on "\n" only. A trailing newline does not start an extra
// line, and a "\r" before the newline stays part of the line so CRLF
// fragments are merged verbatim.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
