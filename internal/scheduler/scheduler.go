// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the site's background jobs on cron schedules:
// refreshing the cached project list and pruning old events.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job names.
const (
	JobRefreshProjects = "refresh_projects"
	JobPruneEvents     = "prune_events"
)

// ErrUnknownJob is returned by Trigger for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Refresher reloads the project list into the cache.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// EventPruner deletes events older than a cutoff.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config holds the job schedules. An empty schedule disables the job.
type Config struct {
	RefreshSchedule string
	PruneSchedule   string
	EventRetention  time.Duration
	JobTimeout      time.Duration
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	LastError   string
	NextRun     time.Time
}

type job struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	run         func(ctx context.Context) error

	mu        sync.Mutex
	lastRun   time.Time
	lastError string
}

// Scheduler handles the cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	jobTimeout time.Duration

	mu   sync.RWMutex
	jobs map[string]*job
}

// New creates a scheduler and registers the refresh and prune jobs. Jobs that
// overlap a still-running previous run are skipped.
func New(cfg Config, refresher Refresher, pruner EventPruner, logger *slog.Logger) (*Scheduler, error) {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}
	cl := cronLogger{logger: logger}

	s := &Scheduler{
		cron:       cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:     logger,
		jobTimeout: cfg.JobTimeout,
		jobs:       make(map[string]*job),
	}

	if refresher != nil && cfg.RefreshSchedule != "" {
		err := s.add(JobRefreshProjects, "Reload the project list into the cache", cfg.RefreshSchedule,
			func(ctx context.Context) error {
				n, err := refresher.Refresh(ctx)
				if err != nil {
					return err
				}
				s.logger.Info("project cache refreshed", "category", "schedule", "projects", n)
				return nil
			})
		if err != nil {
			return nil, err
		}
	}

	if pruner != nil && cfg.PruneSchedule != "" && cfg.EventRetention > 0 {
		err := s.add(JobPruneEvents, "Delete events older than the retention period", cfg.PruneSchedule,
			func(ctx context.Context) error {
				n, err := pruner.DeleteEventsBefore(ctx, time.Now().Add(-cfg.EventRetention))
				if err != nil {
					return err
				}
				if n > 0 {
					s.logger.Info("old events deleted", "category", "schedule", "count", n)
				}
				return nil
			})
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) add(name, description, schedule string, run func(ctx context.Context) error) error {
	j := &job{name: name, description: description, schedule: schedule, run: run}
	id, err := s.cron.AddFunc(schedule, func() { s.execute(j) })
	if err != nil {
		return fmt.Errorf("scheduling %s (%q): %w", name, schedule, err)
	}
	j.entryID = id

	s.mu.Lock()
	s.jobs[name] = j
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) execute(j *job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	err := j.run(ctx)

	j.mu.Lock()
	j.lastRun = time.Now()
	j.lastError = ""
	if err != nil {
		j.lastError = err.Error()
	}
	j.mu.Unlock()

	if err != nil {
		s.logger.Warn("scheduled job failed", "category", "schedule", "job", j.name, "error", err)
	}
	return err
}

// Start begins running the jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Trigger runs a job immediately and returns its error.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(j)
}

// Jobs lists the registered jobs sorted by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		j.mu.Lock()
		info := JobInfo{
			Name:        j.name,
			Description: j.description,
			Schedule:    j.schedule,
			LastRun:     j.lastRun,
			LastError:   j.lastError,
			NextRun:     s.cron.Entry(j.entryID).Next,
		}
		j.mu.Unlock()
		infos = append(infos, info)
	}
	sort.Slice(infos, func(a, b int) bool { return infos[a].Name < infos[b].Name })
	return infos
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"category", "schedule", "error", err}, keysAndValues...)...)
}
