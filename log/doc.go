// Package log is a small leveled logging layer over [log/slog].
//
// A [Logger] is configured once with functional options and is then
// immutable; [Logger.Wrap] and [Logger.With] derive new loggers.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("parsed", slog.Int("units", 3))
//
// Every level has a context-aware method; the others use
// [DefaultContextProvider]. Below [LevelDebug] is [LevelTrace], which the
// parser uses for per-unit events.
//
// Pretty output ([WithPretty], on by default) styles keys, values, and
// levels with lipgloss and falls back to plain text when the destination is
// not a terminal. Disable it to get the stock slog text and JSON handlers.
//
// The package-level functions log through a default logger that writes to
// standard error; [Config] reconfigures it.
package log
