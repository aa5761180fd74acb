// Package corelog builds the *slog.Logger the lepton core logs
// through. The core never decides for itself whether it's attached to
// a terminal or a pipe; callers that don't care can just use Default.
package corelog

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New builds a tint-backed logger writing to w at the given level.
// When w is a terminal (per isatty), tint colorizes; otherwise it
// falls back to its plain rendering.
func New(w *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		NoColor:    !isatty.IsTerminal(w.Fd()) && !isatty.IsCygwinTerminal(w.Fd()),
		TimeFormat: "15:04:05",
	}))
}

// Default builds the logger lepton falls back to when no logger is
// threaded in explicitly: debug-level diagnostics to stderr.
func Default() *slog.Logger {
	return New(os.Stderr, slog.LevelDebug)
}
