package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"touchtrack/layout"
	"touchtrack/model"
)

func TestKeyboardKeyWidth(t *testing.T) {
	keys := []*model.Key{
		{X: 0, Y: 0, Width: 36, Height: 50, Code: 'a', Label: "a"},
	}

	t.Run("uses the given width", func(t *testing.T) {
		assert.Equal(t, 40, layout.NewKeyboard(keys, 40).KeyWidth())
	})

	t.Run("falls back to the first key's width", func(t *testing.T) {
		assert.Equal(t, 36, layout.NewKeyboard(keys, 0).KeyWidth())
	})
}

func TestKeyboardLanguageSwitch(t *testing.T) {
	t.Run("unsupported without a space key", func(t *testing.T) {
		kb := layout.NewKeyboard([]*model.Key{
			{X: 0, Y: 0, Width: 40, Height: 50, Code: 'a', Label: "a"},
		}, 40)
		kb.EnableLanguageSwitch(30)

		assert.False(t, kb.SupportsLanguageSwitchGesture())
	})

	kb := gridKeyboard()
	kb.EnableLanguageSwitch(30)

	t.Run("supported once enabled on a layout with space", func(t *testing.T) {
		assert.True(t, kb.SupportsLanguageSwitchGesture())
	})

	t.Run("triggers on a decisive drag either way", func(t *testing.T) {
		assert.False(t, kb.ShouldTriggerLanguageSwitch(30))
		assert.True(t, kb.ShouldTriggerLanguageSwitch(31))
		assert.True(t, kb.ShouldTriggerLanguageSwitch(-31))
	})

	t.Run("direction follows the recorded drag", func(t *testing.T) {
		kb.SetLanguageSwitchDrag(45)
		assert.Equal(t, 1, kb.LanguageChangeDirection())

		kb.SetLanguageSwitchDrag(-45)
		assert.Equal(t, -1, kb.LanguageChangeDirection())

		kb.SetLanguageSwitchDrag(10)
		assert.Equal(t, 0, kb.LanguageChangeDirection())
	})

	t.Run("spacebar preview only while dragging", func(t *testing.T) {
		kb.SetLanguageSwitchDrag(0)
		assert.False(t, kb.NeedsSpacebarPreview(4))

		kb.SetLanguageSwitchDrag(45)
		assert.True(t, kb.NeedsSpacebarPreview(4))
		assert.False(t, kb.NeedsSpacebarPreview(0))
	})
}

func TestModeState(t *testing.T) {
	m := &layout.ModeState{MomentarySymbols: true, LanguageSwitch: true, LocaleCount: 3}

	assert.True(t, m.InMomentarySymbolsMode())
	assert.True(t, m.LanguageSwitchEnabled())
	assert.Equal(t, 3, m.EnabledLocaleCount())
}
