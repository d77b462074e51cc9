// Package otp holds the helpers behind the six-box one-time-code entry: code
// assembly and paste distribution, the resend countdown, and the wrong-code
// lockout.
package otp

import (
	"strings"
	"unicode"
)

// CodeLength is the number of OTP input boxes.
const CodeLength = 6

// Assemble joins the per-box inputs into the submitted code, skipping empty
// boxes. Box values longer than one rune contribute only their first digit.
func Assemble(boxes []string) string {
	var b strings.Builder
	for _, box := range boxes {
		for _, r := range box {
			if unicode.IsDigit(r) {
				b.WriteRune(r)
				break
			}
		}
	}
	return b.String()
}

// Distribute spreads pasted text across the input boxes, keeping digits only:
// pasting "12ab3456" into the first box yields ["1","2","3","4","5","6"].
func Distribute(paste string) []string {
	boxes := make([]string, CodeLength)
	i := 0
	for _, r := range paste {
		if i == CodeLength {
			break
		}
		if unicode.IsDigit(r) {
			boxes[i] = string(r)
			i++
		}
	}
	return boxes
}

// NormalizePhone joins a dial code and a local number into the full
// international form: ("+998", "901234567") -> "+998901234567". Spaces and
// punctuation in the local part are dropped.
func NormalizePhone(dial, local string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(dial))
	for _, r := range local {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
