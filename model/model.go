package model

import (
	"unicode"
	"unicode/utf8"
)

// Key codes with special meaning to the tracker. Ordinary keys carry the
// unicode code point of their output character.
const (
	CodeShift             = -1
	CodeSwitchAlphaSymbol = -2
	CodeDelete            = -5
	CodeNextLanguage      = -100
	CodePrevLanguage      = -101

	CodeEnter = 10
	CodeSpace = 32
)

// IsModifierCode reports whether code belongs to a modifier key, i.e. a key
// whose press excludes concurrent ordinary presses from other pointers.
func IsModifierCode(code int) bool {
	return code == CodeShift || code == CodeSwitchAlphaSymbol
}

// Key is one key of an on-screen keyboard layout. Identity is positional:
// keys are referred to by their index in the owning layout, so swapping the
// layout invalidates every cached index.
type Key struct {
	X      int
	Y      int
	Width  int
	Height int

	Code       int
	Label      string
	HintLabel  string
	OutputText string

	Repeatable bool
	Disabled   bool

	// Pressed is the visual state toggled by the tracker, consumed by
	// whatever renders the key art.
	Pressed bool
}

func (k *Key) IsEnabled() bool {
	return !k.Disabled
}

func (k *Key) OnPressed() {
	k.Pressed = true
}

func (k *Key) OnReleased() {
	k.Pressed = false
}

// IsInside reports whether the point falls within the key region.
func (k *Key) IsInside(x, y int) bool {
	return x >= k.X && x < k.X+k.Width && y >= k.Y && y < k.Y+k.Height
}

// SquaredDistanceToEdge returns the squared distance from the point to the
// closest edge of the key region. Zero when the point is inside.
func (k *Key) SquaredDistanceToEdge(x, y int) int {
	edgeX := clamp(x, k.X, k.X+k.Width)
	edgeY := clamp(y, k.Y, k.Y+k.Height)
	dx := x - edgeX
	dy := y - edgeY

	return dx*dx + dy*dy
}

// HasUppercaseHint reports whether the key defines an uppercase hint letter,
// used while the keyboard is in manual-temporary-uppercase mode.
func (k *Key) HasUppercaseHint() bool {
	if k.HintLabel == "" {
		return false
	}

	r, _ := utf8.DecodeRuneInString(k.HintLabel)

	return unicode.IsUpper(r)
}

// UppercaseHintCode is the code emitted instead of the primary code when the
// uppercase hint substitutes it.
func (k *Key) UppercaseHintCode() int {
	r, _ := utf8.DecodeRuneInString(k.HintLabel)

	return int(r)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// TouchType discriminates raw touch samples delivered to the tracker.
type TouchType int

const (
	TouchDown TouchType = iota
	TouchMove
	TouchUp
	TouchCancel
)

func (t TouchType) String() string {
	switch t {
	case TouchDown:
		return "down"
	case TouchMove:
		return "move"
	case TouchUp:
		return "up"
	case TouchCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// TouchEvent is one raw multi-touch sample: a pointer identity, its
// coordinates and a monotonic timestamp in milliseconds.
type TouchEvent struct {
	PointerID int
	Type      TouchType
	X         int
	Y         int
	Time      int64
}

// Action kinds stored by the db package.
const (
	ActionCode   = "code"
	ActionText   = "text"
	ActionCancel = "cancel"
)

// Action is a decoded key action committed by the tracker.
type Action struct {
	Kind string
	Code int
	Text string
	X    int
	Y    int
}

// ActionCount is an aggregated row for the show command.
type ActionCount struct {
	Kind  string
	Code  int
	Text  string
	Count int
}
