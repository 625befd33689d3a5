package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "powerchat_store_reads_total",
		Help: "Tree store reads by result (hit, miss, error).",
	}, []string{"result"})

	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "powerchat_store_writes_total",
		Help: "Tree store writes by result (ok, error).",
	}, []string{"result"})

	updatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "powerchat_store_updates_total",
		Help: "Completed read-modify-write updates on shared collections.",
	})
)
