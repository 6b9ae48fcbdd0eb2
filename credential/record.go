// Package credential holds the Wi-Fi credential records rendered one per page,
// and the per-character classification used to style passwords.
package credential

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Password length bounds for WPA passphrases.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 63
)

// Record is one network: it produces one page of output.
type Record struct {
	SSID     string   `json:"ssid"`
	Security Security `json:"security"`
	Hidden   bool     `json:"hidden"`
	Password string   `json:"password,omitempty"`
}

// HasPassword reports whether the record carries a password.
func (r Record) HasPassword() bool { return r.Password != "" }

// Validate checks the record before rendering.
func (r Record) Validate() error {
	var errs []error
	if utf8.RuneCountInString(r.SSID) < 1 {
		errs = append(errs, errors.New("ssid must not be empty"))
	}
	if r.HasPassword() {
		n := utf8.RuneCountInString(r.Password)
		if n < MinPasswordLen || n > MaxPasswordLen {
			errs = append(errs, fmt.Errorf("password must be %d to %d characters, got %d", MinPasswordLen, MaxPasswordLen, n))
		}
	} else if !r.Security.IsOpen() {
		errs = append(errs, fmt.Errorf("security %s requires a password", r.Security))
	}
	if len(errs) > 0 {
		return fmt.Errorf("record %q: %w", r.SSID, errors.Join(errs...))
	}
	return nil
}
