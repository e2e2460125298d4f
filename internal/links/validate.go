package links

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/abdusco/shortlinks/internal"
	"github.com/samber/lo"
)

const MaxShortlinkLength = 64

// ReservedShortlinks are first path segments owned by the router.
var ReservedShortlinks = []string{"api", "health"}

func validateLonglink(longlink string) error {
	if longlink == "" {
		return fmt.Errorf("%w: longlink is required", internal.ErrInvalidInput)
	}

	u, err := url.Parse(longlink)
	if err != nil {
		return fmt.Errorf("%w: longlink is not a valid URL", internal.ErrInvalidInput)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: longlink must include a scheme and host", internal.ErrInvalidInput)
	}

	return nil
}

func validateShortlink(shortlink string, reserved []string) error {
	if shortlink == "" {
		return fmt.Errorf("%w: shortlink cannot be empty", internal.ErrInvalidInput)
	}
	if len(shortlink) > MaxShortlinkLength {
		return fmt.Errorf("%w: shortlink is longer than %d characters", internal.ErrInvalidInput, MaxShortlinkLength)
	}

	for _, c := range shortlink {
		if !isShortlinkChar(c) {
			return fmt.Errorf("%w: shortlink may only contain letters, digits, '-' and '_'", internal.ErrInvalidInput)
		}
	}

	if lo.ContainsBy(reserved, func(r string) bool { return strings.EqualFold(r, shortlink) }) {
		return fmt.Errorf("%w: shortlink %q is reserved", internal.ErrInvalidInput, shortlink)
	}

	return nil
}

func isShortlinkChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return c == '-' || c == '_'
}
