package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telegram bot metrics.
var (
	commandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamyon_commands_processed_total",
			Help: "Total number of processed commands by type",
		},
		[]string{"command"}, // start, help, balance
	)

	messagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamyon_messages_processed_total",
			Help: "Total number of processed messages by type",
		},
		[]string{"type"}, // text, voice, photo
	)

	callbacksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamyon_callbacks_processed_total",
			Help: "Total number of processed callback queries by action",
		},
		[]string{"action"}, // m, c, d, dc, dt, l, r, export
	)

	draftsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamyon_drafts_created_total",
			Help: "Total number of drafts created by source",
		},
		[]string{"source"}, // text, voice, receipt, manual
	)

	draftsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hamyon_drafts_saved_total",
			Help: "Total number of drafts confirmed and committed",
		},
	)

	draftsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hamyon_drafts_cancelled_total",
			Help: "Total number of drafts cancelled",
		},
	)

	parseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hamyon_parse_failures_total",
			Help: "Total number of messages that did not parse as an entry",
		},
	)

	commitFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hamyon_commit_failures_total",
			Help: "Total number of failed persistence commits",
		},
	)

	// Drafts never expire, so this gauge is how abandoned ones are seen.
	openDrafts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hamyon_open_drafts",
			Help: "Number of drafts currently awaiting confirmation",
		},
	)

	transcriptionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hamyon_transcription_duration_seconds",
			Help:    "Voice transcription latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	ocrDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hamyon_ocr_duration_seconds",
			Help:    "Receipt OCR latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamyon_errors_total",
			Help: "Total number of errors by kind",
		},
		[]string{"kind"},
	)
)
