package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatdoc",
		Name:      "ingests_total",
		Help:      "Document ingests by outcome.",
	}, []string{"outcome"})

	answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatdoc",
		Name:      "answers_total",
		Help:      "Questions answered by outcome.",
	}, []string{"outcome"})

	quizzesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatdoc",
		Name:      "quizzes_total",
		Help:      "Quiz generations by outcome.",
	}, []string{"outcome"})

	ingestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chatdoc",
		Name:      "ingest_duration_seconds",
		Help:      "Time from upload to searchable index.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	answerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chatdoc",
		Name:      "answer_duration_seconds",
		Help:      "Time to retrieve context and synthesize an answer.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	documentChunks = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chatdoc",
		Name:      "document_chunks",
		Help:      "Chunks per ingested document.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
)
