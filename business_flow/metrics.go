package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Applied bulk price mutations partitioned by change type
	bulkAppliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cennik_bulk_applies_total",
			Help: "Total number of applied bulk price mutations",
		},
		[]string{"change_type"},
	)

	// Applied spreadsheet imports partitioned by merge mode
	importsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cennik_imports_applied_total",
			Help: "Total number of applied spreadsheet imports",
		},
		[]string{"mode"},
	)

	// Rendered price exports partitioned by data type and format
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cennik_exports_total",
			Help: "Total number of rendered price exports",
		},
		[]string{"type", "format"},
	)
)
