package feed

import (
	"log/slog"

	"touchtrack/model"
	"touchtrack/tracker"
)

// LogRender is the render port for headless runs: key visual state and
// preview requests become debug log lines instead of drawing.
type LogRender struct{}

func (LogRender) InvalidateKey(k *model.Key) {
	slog.Debug("invalidate key", "code", k.Code, "label", k.Label, "pressed", k.Pressed)
}

func (LogRender) ShowKeyPreview(keyIndex int, t *tracker.Tracker) {
	slog.Debug("show key preview", "keyIndex", keyIndex, "pointer", t.ID)
}

func (LogRender) CancelKeyPreview(t *tracker.Tracker) {
	slog.Debug("cancel key preview", "pointer", t.ID)
}

func (LogRender) DismissKeyPreview(t *tracker.Tracker) {
	slog.Debug("dismiss key preview", "pointer", t.ID)
}
