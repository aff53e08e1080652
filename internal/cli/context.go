package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/julianstephens/moodcheck/internal/backup"
	"github.com/julianstephens/moodcheck/internal/checkin"
	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/entries"
	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/metrics"
	"github.com/julianstephens/moodcheck/internal/models"
	"github.com/julianstephens/moodcheck/internal/stats"
	"github.com/julianstephens/moodcheck/internal/statuscache"
	"github.com/julianstephens/moodcheck/internal/storage"
)

// Options are the process-wide settings the services are built from.
type Options struct {
	Store    storage.Provider
	Clock    clock.Clock
	Remote   checkin.Remote
	Checkin  checkin.Config
	Notifier checkin.Notifier
	Registry *prometheus.Registry
	In       io.Reader
	Out      io.Writer
}

// Context carries the services shared by every command. Each service is
// constructed once per process.
type Context struct {
	Store    storage.Provider
	Clock    clock.Clock
	Remote   checkin.Remote
	Cache    *statuscache.Cache
	Entries  *entries.Repository
	Pipeline *checkin.Pipeline
	Stats    *stats.Aggregator
	Metrics  *metrics.CheckinMetrics
	Registry *prometheus.Registry
	In       io.Reader
	Out      io.Writer
}

func NewContext(opts Options) *Context {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	cache := statuscache.New(opts.Store, opts.Clock)
	repo := entries.NewRepository(opts.Store)
	m := metrics.New(opts.Registry)

	pipelineOpts := []checkin.Option{checkin.WithMetrics(m)}
	if opts.Notifier != nil {
		pipelineOpts = append(pipelineOpts, checkin.WithNotifier(opts.Notifier))
	}

	return &Context{
		Store:    opts.Store,
		Clock:    opts.Clock,
		Remote:   opts.Remote,
		Cache:    cache,
		Entries:  repo,
		Pipeline: checkin.New(opts.Clock, repo, cache, opts.Remote, opts.Checkin, pipelineOpts...),
		Stats:    stats.NewAggregator(repo, opts.Clock),
		Metrics:  m,
		Registry: opts.Registry,
		In:       opts.In,
		Out:      opts.Out,
	}
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// confirm asks a y/N question on c.In.
func (c *Context) confirm(question string) (bool, error) {
	c.printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// sqlitePath returns the database file when the store is SQLite.
func (c *Context) sqlitePath() (string, bool) {
	if s, ok := c.Store.(*storage.SQLiteStore); ok {
		return s.GetConfigPath(), true
	}
	return "", false
}

// PerformAutomaticBackup snapshots a SQLite store, logging any failure.
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.sqlitePath()
	if !ok {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

var periodLabels = map[models.MoodPeriod]string{
	models.PeriodManha: "morning",
	models.PeriodTarde: "afternoon",
	models.PeriodNoite: "evening",
}

var moodLabels = map[models.MoodLevel]string{
	models.MoodPessimo:   "Awful",
	models.MoodMal:       "Bad",
	models.MoodNeutro:    "Okay",
	models.MoodBem:       "Good",
	models.MoodExcelente: "Great",
}
