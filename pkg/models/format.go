package models

import (
	"strconv"
	"strings"
)

const (
	// CodeWidth is the number of digits of one org-path level.
	CodeWidth = 2
	// IDLength is the fixed length of container ids.
	IDLength = 40
	// IDFiller pads keys shorter than IDLength.
	IDFiller = 'X'

	codePadding = '0'
)

// FormatCode renders num as a zero padded decimal of exactly width digits.
// Numbers that do not fit return an *OverflowError.
func FormatCode(num, width int) (string, error) {
	if num < 0 {
		return "", &OverflowError{Value: num, Width: width}
	}
	s := strconv.Itoa(num)
	if len(s) > width {
		return "", &OverflowError{Value: num, Width: width}
	}
	return strings.Repeat(string(codePadding), width-len(s)) + s, nil
}

// FitToLength cuts s to length, or appends filler until it is length long.
func FitToLength(s string, length int, filler rune) string {
	if len(s) >= length {
		return s[:length]
	}
	return s + strings.Repeat(string(filler), length-len(s))
}
