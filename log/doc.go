// Package log builds [log/slog] handlers for asciiplay.
//
// Three formats are supported: [FormatJSON] and [FormatLogfmt] use the
// slog built-in handlers, and [FormatText] uses the human-oriented handler
// from [charm.land/log/v2]. Levels are [LevelError], [LevelWarn],
// [LevelInfo], and [LevelDebug].
//
// Register CLI flags with [Config.RegisterFlags] and build the handler at
// startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// While the full-screen player owns the terminal, log output goes to a
// [Publisher] instead, and the player shows the most recent entry in its
// footer.
package log
