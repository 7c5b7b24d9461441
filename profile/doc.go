// Package profile records runtime profiles and execution traces of a
// playback session.
//
// CPU profiles and execution traces cover the whole session; heap,
// goroutine, block, and mutex profiles are snapshots written when the
// session ends. Execution traces are the most useful tool for investigating
// late or skipped frames, since they show every tick and the goroutines that
// delayed it.
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	p := cfg.NewProfiler(logger)
//	err := p.Start()
//	// ...
//	err = p.Stop()
//
// Users enable profiling with flags like --cpu-profile=cpu.prof or
// --trace=play.trace.
package profile
