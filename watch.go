package features

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/etnz/features/logger"
	"github.com/fsnotify/fsnotify"
)

// WatchDelay is the quiet time after the last input change before running again.
const WatchDelay = 200 * time.Millisecond

// Watch runs the job, then runs it again every time one of its input files
// changes, until ctx is done. Each run is passed to 'report'.
//
// Only the folder at the root of an input pattern is watched, files created in
// a new sub folder are picked up by the next run only.
func Watch(ctx context.Context, job Job, report func(*Result, error)) error {
	var inputs, dirs []string
	for _, path := range []string{job.Transactions, job.Prices} {
		if path == "" {
			continue
		}
		inputs = append(inputs, path)
		if dir := inputDir(path); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	if len(inputs) == 0 {
		return errors.New("nothing to watch: neither transactions nor prices file")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create file watcher: %w", err)
	}
	defer fsw.Close()
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("cannot watch %q: %w", dir, err)
		}
	}
	log := logger.FromContext(ctx)
	log.Info().Strs("dirs", dirs).Msg("watching inputs")

	// outputs can be written next to the inputs, they must not trigger a run.
	outputs := make(map[string]bool)
	if job.OutputDir != "" {
		format := job.Format
		if format == "" {
			format = CSV
		}
		for _, name := range []string{MonthlyFile, PriceFile, CombinedFile} {
			outputs[filepath.Join(job.OutputDir, name+format.Ext())] = true
		}
	}
	run := func() { report(Run(ctx, job)) }
	run()

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if outputs[filepath.Clean(event.Name)] || event.Op == fsnotify.Chmod {
				continue
			}
			if slices.ContainsFunc(inputs, func(path string) bool { return matchInput(path, event.Name) }) {
				log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("input changed")
				timer = time.After(WatchDelay)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watch error")

		case <-timer:
			timer = nil
			log.Info().Msg("inputs changed, running again")
			run()
		}
	}
}
