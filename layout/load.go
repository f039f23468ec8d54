package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"touchtrack/model"
)

// KeyDescriptor is one key entry of a layout JSON file.
type KeyDescriptor struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Code defaults to the code point of Label when omitted.
	Code       int    `json:"code,omitempty"`
	Label      string `json:"label,omitempty"`
	Hint       string `json:"hint,omitempty"`
	OutputText string `json:"outputText,omitempty"`

	Repeatable bool `json:"repeatable,omitempty"`
	Disabled   bool `json:"disabled,omitempty"`
}

// LayoutJSON is the on-disk layout description.
type LayoutJSON struct {
	Name     string `json:"name"`
	KeyWidth int    `json:"keyWidth"`

	// LanguageSwitchOffset, when positive, enables the spacebar language
	// switch gesture with the given trigger offset in pixels.
	LanguageSwitchOffset int `json:"languageSwitchOffset,omitempty"`

	Keys []KeyDescriptor `json:"keys"`
}

// Load reads a layout JSON document into a Keyboard.
func Load(r io.Reader) (*Keyboard, error) {
	var doc LayoutJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode layout JSON: %w", err)
	}

	if len(doc.Keys) == 0 {
		return nil, errors.New("layout has no keys")
	}

	keys := make([]*model.Key, 0, len(doc.Keys))

	for i, desc := range doc.Keys {
		if desc.Width <= 0 || desc.Height <= 0 {
			return nil, fmt.Errorf("key %d has degenerate region %dx%d", i, desc.Width, desc.Height)
		}

		code := desc.Code
		if code == 0 {
			if desc.Label == "" {
				return nil, fmt.Errorf("key %d has neither code nor label", i)
			}

			r, _ := utf8.DecodeRuneInString(desc.Label)
			code = int(r)
		}

		keys = append(keys, &model.Key{
			X:          desc.X,
			Y:          desc.Y,
			Width:      desc.Width,
			Height:     desc.Height,
			Code:       code,
			Label:      desc.Label,
			HintLabel:  desc.Hint,
			OutputText: desc.OutputText,
			Repeatable: desc.Repeatable,
			Disabled:   desc.Disabled,
		})
	}

	kb := NewKeyboard(keys, doc.KeyWidth)
	if doc.LanguageSwitchOffset > 0 {
		kb.EnableLanguageSwitch(doc.LanguageSwitchOffset)
	}

	return kb, nil
}

// LoadFile loads a layout from a JSON file on disk.
func LoadFile(path string) (*Keyboard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open layout file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}
