package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coderoom"

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rooms_active",
		Help:      "Rooms currently in the registry.",
	})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_active",
		Help:      "Joined WebSocket connections.",
	})

	JoinRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "join_rejections_total",
		Help:      "Rejected join attempts by reason.",
	}, []string{"reason"})

	BroadcastFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_frames_total",
		Help:      "Frames handed to member connections during fan-out.",
	}, []string{"result"})

	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Judged submissions by verdict.",
	}, []string{"verdict"})

	ExecDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "exec_duration_seconds",
		Help:      "Wall-clock time of sandboxed executions.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2, 3, 5, 10},
	})
)
