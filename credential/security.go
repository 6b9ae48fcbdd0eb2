package credential

import (
	"fmt"
	"strings"
)

// Security is the authentication scheme of a network.
type Security int

const (
	Open Security = iota
	EnhancedOpen
	WEP
	WPA
	WPA2PSK
	WPA3PSK
)

// Aliases accepted on input.
const (
	WPA2 = WPA2PSK
	WPA3 = WPA3PSK
)

var securityValues = map[Security]string{
	Open:         "Open",
	EnhancedOpen: "Enhanced Open",
	WEP:          "WEP",
	WPA:          "WPA Personal",
	WPA2PSK:      "WPA2 Personal",
	WPA3PSK:      "WPA3 Personal",
}

// securityNames is ordered the way labels are listed to users.
var securityNames = []struct {
	name string
	sec  Security
}{
	{"OPEN", Open},
	{"ENHANCED_OPEN", EnhancedOpen},
	{"WEP", WEP},
	{"WPA", WPA},
	{"WPA2PSK", WPA2PSK},
	{"WPA2", WPA2},
	{"WPA3PSK", WPA3PSK},
	{"WPA3", WPA3},
}

var labelFolder = strings.NewReplacer("-", "", "_", "", " ", "")

// ParseSecurity resolves a label such as "wpa2", "WPA2-PSK" or "enhanced open".
func ParseSecurity(label string) (Security, error) {
	key := labelFolder.Replace(strings.ToUpper(strings.TrimSpace(label)))
	for _, n := range securityNames {
		if labelFolder.Replace(n.name) == key {
			return n.sec, nil
		}
	}
	return Open, fmt.Errorf("unknown security %q (expected one of %s)", label, strings.Join(SecurityNames(), ", "))
}

// SecurityNames lists the accepted labels.
func SecurityNames() []string {
	out := make([]string, len(securityNames))
	for i, n := range securityNames {
		out[i] = n.name
	}
	return out
}

// String returns the human-readable name, e.g. "WPA2 Personal".
func (s Security) String() string {
	if v, ok := securityValues[s]; ok {
		return v
	}
	return fmt.Sprintf("Security(%d)", int(s))
}

// IsOpen reports whether the network needs no password.
func (s Security) IsOpen() bool { return s == Open || s == EnhancedOpen }

// QRType returns the T: field of a WIFI: QR payload.
func (s Security) QRType() string {
	switch s {
	case WEP:
		return "WEP"
	case WPA, WPA2PSK:
		return "WPA"
	case WPA3PSK:
		return "SAE"
	default:
		return "nopass"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Security) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
