package domain

import "strings"

// RayColor names the highlight color used for attack-wave overlays.
type RayColor string

const (
	RayRed     RayColor = "red"
	RayBlue    RayColor = "blue"
	RayGreen   RayColor = "green"
	RayYellow  RayColor = "yellow"
	RayMagenta RayColor = "magenta"
	RayCyan    RayColor = "cyan"
)

var rayColorOrder = []RayColor{RayRed, RayBlue, RayGreen, RayYellow, RayMagenta, RayCyan}

// ParseRayColor maps a user-supplied name to a RayColor, defaulting to red.
func ParseRayColor(s string) RayColor {
	name := RayColor(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range rayColorOrder {
		if c == name {
			return c
		}
	}
	return RayRed
}

// Next cycles to the following color in the selector order.
func (c RayColor) Next() RayColor {
	for i, v := range rayColorOrder {
		if v == c {
			return rayColorOrder[(i+1)%len(rayColorOrder)]
		}
	}
	return RayRed
}

// RGB returns the display color, full opacity implied.
func (c RayColor) RGB() (r, g, b uint8) {
	switch c {
	case RayBlue:
		return 0x20, 0x60, 0xff
	case RayGreen:
		return 0x30, 0xff, 0x40
	case RayYellow:
		return 0xff, 0xe0, 0x20
	case RayMagenta:
		return 0xff, 0x00, 0xff
	case RayCyan:
		return 0x00, 0xe5, 0xff
	default:
		return 0xff, 0x20, 0x20
	}
}

// LabelMode selects the per-cell annotation: piece figurines or heat values.
type LabelMode string

const (
	LabelSymbols LabelMode = "symbols"
	LabelValues  LabelMode = "values"
)

// ParseLabelMode defaults to symbols for anything unrecognized.
func ParseLabelMode(s string) LabelMode {
	if strings.EqualFold(strings.TrimSpace(s), string(LabelValues)) {
		return LabelValues
	}
	return LabelSymbols
}

// Toggle flips between the two annotation modes.
func (m LabelMode) Toggle() LabelMode {
	if m == LabelValues {
		return LabelSymbols
	}
	return LabelValues
}
