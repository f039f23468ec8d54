package layout

import (
	"math"

	"touchtrack/tracker"
)

const (
	// maxNearbyKeys bounds the debounced nearby-code list.
	maxNearbyKeys = 12

	// searchDistance scales the key width into the proximity radius within
	// which a key still contributes nearby codes.
	searchDistance = 1.2
)

// Detector resolves touch coordinates to key indices for one keyboard, and
// ranks nearby key codes by distance for debounced decoding.
type Detector struct {
	keyboard *Keyboard

	maxNearby                 int
	hysteresisDistanceSquared int
	proximityThresholdSquared int
}

// NewDetector builds a detector for the keyboard. hysteresisDistance is the
// plain (not squared) distance, in pixels, the pointer must move past a
// key's edge before the move counts as leaving the key.
func NewDetector(kb *Keyboard, hysteresisDistance int) *Detector {
	proximity := int(float64(kb.KeyWidth()) * searchDistance)

	return &Detector{
		keyboard:                  kb,
		maxNearby:                 maxNearbyKeys,
		hysteresisDistanceSquared: hysteresisDistance * hysteresisDistance,
		proximityThresholdSquared: proximity * proximity,
	}
}

func (d *Detector) KeyModel() tracker.KeyModel {
	return d.keyboard
}

func (d *Detector) NewNearbyCodes() []int {
	return make([]int, d.maxNearby)
}

func (d *Detector) HysteresisDistanceSquared() int {
	return d.hysteresisDistanceSquared
}

func (d *Detector) IsOverlayVariant() bool {
	return false
}

// HitTest returns the index of the key containing the point, or NotAKey.
// When nearbyCodes is non-nil it is filled, closest first, with the codes of
// enabled keys within the proximity radius.
func (d *Detector) HitTest(x, y int, nearbyCodes []int) int {
	primary := tracker.NotAKey

	var distances []int
	if nearbyCodes != nil {
		for i := range nearbyCodes {
			nearbyCodes[i] = 0
		}

		distances = make([]int, len(nearbyCodes))
		for i := range distances {
			distances[i] = math.MaxInt
		}
	}

	for i, key := range d.keyboard.Keys() {
		inside := key.IsInside(x, y)
		if inside {
			primary = i
		}

		if nearbyCodes == nil || !key.IsEnabled() {
			continue
		}

		dist := key.SquaredDistanceToEdge(x, y)
		if !inside && dist >= d.proximityThresholdSquared {
			continue
		}

		insertNearby(nearbyCodes, distances, key.Code, dist)
	}

	return primary
}

// insertNearby keeps codes sorted by ascending distance, dropping the
// farthest entry when full.
func insertNearby(codes, distances []int, code, dist int) {
	for i := range codes {
		if dist >= distances[i] {
			continue
		}

		copy(codes[i+1:], codes[i:len(codes)-1])
		copy(distances[i+1:], distances[i:len(distances)-1])
		codes[i] = code
		distances[i] = dist

		return
	}
}

// OverlayDetector serves popup overlay mini-keyboards: sliding is always
// allowed on them, the pointer snaps to the nearest key within a generous
// slide allowance, and no nearby-code debouncing applies.
type OverlayDetector struct {
	keyboard *Keyboard

	slideAllowanceSquared     int
	hysteresisDistanceSquared int
}

func NewOverlayDetector(kb *Keyboard, hysteresisDistance int) *OverlayDetector {
	// Half again the key width: overlays are small and fingers sloppy.
	allowance := kb.KeyWidth() + kb.KeyWidth()/2

	return &OverlayDetector{
		keyboard:                  kb,
		slideAllowanceSquared:     allowance * allowance,
		hysteresisDistanceSquared: hysteresisDistance * hysteresisDistance,
	}
}

func (d *OverlayDetector) KeyModel() tracker.KeyModel {
	return d.keyboard
}

func (d *OverlayDetector) NewNearbyCodes() []int {
	return make([]int, 1)
}

func (d *OverlayDetector) HysteresisDistanceSquared() int {
	return d.hysteresisDistanceSquared
}

func (d *OverlayDetector) IsOverlayVariant() bool {
	return true
}

func (d *OverlayDetector) HitTest(x, y int, nearbyCodes []int) int {
	if nearbyCodes != nil {
		for i := range nearbyCodes {
			nearbyCodes[i] = 0
		}
	}

	best := tracker.NotAKey
	bestDist := d.slideAllowanceSquared

	for i, key := range d.keyboard.Keys() {
		dist := key.SquaredDistanceToEdge(x, y)
		if dist < bestDist {
			best = i
			bestDist = dist
		}
	}

	if best != tracker.NotAKey && nearbyCodes != nil && len(nearbyCodes) > 0 {
		nearbyCodes[0] = d.keyboard.Keys()[best].Code
	}

	return best
}
