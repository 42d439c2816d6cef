package registration

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NewConfirmationCode returns a short human-friendly code printed on a
// ticket and used at the door. Replaceable in tests.
var NewConfirmationCode = func() string {
	code, err := gonanoid.Generate(codeAlphabet, 10)
	if err != nil {
		return ""
	}
	return code
}
