package roster

import (
	"errors"
	"strings"
)

// ErrUnknownPlatform is returned for a platform tracker.gg does not serve.
var ErrUnknownPlatform = errors.New("unknown platform")

// Supported platforms.
const (
	PlatformSteam = "steam"
	PlatformXbox  = "xboxone"
	PlatformPS    = "ps"
)

// Platforms lists the supported platforms in display order.
var Platforms = []string{PlatformSteam, PlatformXbox, PlatformPS}

// NormalizePlatform lower-cases p and trims surrounding spaces and trailing
// commas (autocomplete in some clients leaves "steam,").
func NormalizePlatform(p string) (string, error) {
	p = strings.ToLower(strings.TrimRight(strings.TrimSpace(p), ", "))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", ErrUnknownPlatform
}
