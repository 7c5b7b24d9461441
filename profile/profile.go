package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

var (
	// ErrProfile indicates a profile could not be written.
	ErrProfile = errors.New("profile")
	// ErrStarted indicates [Profiler.Start] was called twice.
	ErrStarted = errors.New("profiler already started")
)

// Profiler records the profiles enabled by its [Config].
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	logger    *slog.Logger
	cpuFile   *os.File
	traceFile *os.File
	cfg       Config
	started   bool
}

// Start sets the sampling rates and begins CPU profiling and tracing when
// enabled. Call [Profiler.Stop] to finish the session.
func (p *Profiler) Start() error {
	if p.started {
		return ErrStarted
	}

	p.started = true

	if p.cfg.Block != "" {
		runtime.SetBlockProfileRate(p.cfg.BlockProfileRate)
	}

	if p.cfg.Mutex != "" {
		runtime.SetMutexProfileFraction(p.cfg.MutexProfileFraction)
	}

	if p.cfg.CPU != "" {
		f, err := create("cpu", p.cfg.CPU)
		if err != nil {
			return err
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			must(f.Close())

			return fmt.Errorf("%w: start cpu: %w", ErrProfile, err)
		}

		p.cpuFile = f
	}

	if p.cfg.Trace != "" {
		f, err := create("trace", p.cfg.Trace)
		if err != nil {
			return errors.Join(err, p.stopCPU())
		}

		err = trace.Start(f)
		if err != nil {
			must(f.Close())

			return errors.Join(fmt.Errorf("%w: start trace: %w", ErrProfile, err), p.stopCPU())
		}

		p.traceFile = f
	}

	return nil
}

// Stop ends CPU profiling and tracing and writes every enabled snapshot
// profile. Calling Stop without Start or more than once is safe.
func (p *Profiler) Stop() error {
	var errs []error

	if p.traceFile != nil {
		trace.Stop()

		err := p.traceFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: close trace: %w", ErrProfile, err))
		} else {
			p.logger.Info("wrote trace", slog.String("path", p.cfg.Trace))
		}

		p.traceFile = nil
	}

	err := p.stopCPU()
	if err != nil {
		errs = append(errs, err)
	}

	if p.started {
		errs = append(errs, p.writeSnapshots())
		p.started = false
	}

	return errors.Join(errs...)
}

func (p *Profiler) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()

	err := p.cpuFile.Close()
	p.cpuFile = nil

	if err != nil {
		return fmt.Errorf("%w: close cpu: %w", ErrProfile, err)
	}

	p.logger.Info("wrote profile", slog.String("profile", "cpu"), slog.String("path", p.cfg.CPU))

	return nil
}

// writeSnapshots writes the enabled snapshot profiles.
func (p *Profiler) writeSnapshots() error {
	snapshots := []struct {
		name string
		path string
	}{
		{"heap", p.cfg.Heap},
		{"goroutine", p.cfg.Goroutine},
		{"block", p.cfg.Block},
		{"mutex", p.cfg.Mutex},
	}

	var errs []error

	for _, s := range snapshots {
		if s.path == "" {
			continue
		}

		err := writeProfile(s.name, s.path)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		p.logger.Info("wrote profile", slog.String("profile", s.name), slog.String("path", s.path))
	}

	return errors.Join(errs...)
}

// writeProfile writes the named pprof profile to path.
func writeProfile(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("%w: unknown profile %q", ErrProfile, name)
	}

	f, err := create(name, path)
	if err != nil {
		return err
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		must(f.Close())

		return fmt.Errorf("%w: write %s: %w", ErrProfile, name, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrProfile, name, err)
	}

	return nil
}

func create(name, path string) (*os.File, error) {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrProfile, name, err)
	}

	return f, nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
