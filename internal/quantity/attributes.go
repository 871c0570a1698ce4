package quantity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Attribute names recognized by a Stepper.
const (
	AttrQuantity     = "quantity"
	AttrMin          = "min"
	AttrMax          = "max"
	AttrQuantityAjax = "quantity_ajax"
)

// Defaults applied when an attribute is missing or unparsable.
const (
	DefaultQuantity = 1
	DefaultMin      = 1
	DefaultMax      = 999

	// DefaultQuietPeriod is how long the quantity must stay unchanged
	// before it is considered settled.
	DefaultQuietPeriod = 1000 * time.Millisecond

	// DefaultRepeatInterval is the press-and-hold cadence.
	DefaultRepeatInterval = 200 * time.Millisecond
)

// ErrInvalidNumber is returned by ParseInt when the input is not an integer.
var ErrInvalidNumber = errors.New("invalid numeric input")

// ObservedAttributes lists the attributes a Stepper reacts to.
func ObservedAttributes() []string {
	return []string{AttrQuantity, AttrMin, AttrMax, AttrQuantityAjax}
}

// ParseInt parses a decimal integer attribute value.
// Surrounding whitespace is ignored.
func ParseInt(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return n, nil
}

// ParseIntOr parses s and falls back to def when s is not an integer.
func ParseIntOr(s string, def int) int {
	n, err := ParseInt(s)
	if err != nil {
		return def
	}
	return n
}

// Settings is the initial configuration of a Stepper.
type Settings struct {
	Quantity int
	Min      int
	Max      int
}

// DefaultSettings returns quantity 1 within [1, 999].
func DefaultSettings() Settings {
	return Settings{
		Quantity: DefaultQuantity,
		Min:      DefaultMin,
		Max:      DefaultMax,
	}
}

// ParseSettings builds Settings from raw attribute strings.
// Unparsable values fall back to the documented defaults.
func ParseSettings(quantity, min, max string) Settings {
	return Settings{
		Quantity: ParseIntOr(quantity, DefaultQuantity),
		Min:      ParseIntOr(min, DefaultMin),
		Max:      ParseIntOr(max, DefaultMax),
	}
}

// SettingsFromAttributes reads quantity, min and max from an attribute map.
func SettingsFromAttributes(attrs map[string]string) Settings {
	return ParseSettings(attrs[AttrQuantity], attrs[AttrMin], attrs[AttrMax])
}
