package db

import (
	"log/slog"

	"touchtrack/model"
)

// Recorder is an ActionSink that persists committed actions: code inputs,
// text inputs and input cancellations. Press and release notifications are
// transient visual signals and are not stored.
type Recorder struct {
	Storage Storage

	// Verbose additionally logs every committed action.
	Verbose bool
}

func (r *Recorder) OnPress(int, bool)   {}
func (r *Recorder) OnRelease(int, bool) {}

func (r *Recorder) OnCodeInput(code int, nearbyCodes []int, x, y int) {
	if r.Verbose {
		slog.Info("code input", "code", code, "nearby", nearbyCodes, "x", x, "y", y)
	}

	r.store(&model.Action{Kind: model.ActionCode, Code: code, X: x, Y: y})
}

func (r *Recorder) OnTextInput(text string) {
	if r.Verbose {
		slog.Info("text input", "text", text)
	}

	r.store(&model.Action{Kind: model.ActionText, Text: text})
}

func (r *Recorder) OnCancelInput() {
	if r.Verbose {
		slog.Info("input canceled")
	}

	r.store(&model.Action{Kind: model.ActionCancel})
}

func (r *Recorder) store(action *model.Action) {
	if err := r.Storage.Store(action); err != nil {
		slog.Error("could not store action", "kind", action.Kind, "error", err)
	}
}
