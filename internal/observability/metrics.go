package observability

import (
	"strconv"
	"time"

	"github.com/danmuck/nrfrpc/internal/rpc"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nrfrpc"

// Metrics records conversation events as Prometheus series. It implements
// rpc.Observer.
type Metrics struct {
	commands      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	registrations *prometheus.CounterVec
	bytes         *prometheus.CounterVec
}

var _ rpc.Observer = (*Metrics)(nil)

// NewMetrics builds the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "commands_total",
				Help:      "Commands sent, by group, command id and result.",
			},
			[]string{"group", "command", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "command_duration_seconds",
				Help:      "Command round trip duration in seconds.",
				Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"group", "command"},
		),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "handshake",
				Name:      "group_registrations_total",
				Help:      "Group registrations, by group and whether the peer assigned an id.",
			},
			[]string{"group", "resolved"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "transport",
				Name:      "bytes_total",
				Help:      "Bytes moved over the transport, by direction.",
			},
			[]string{"direction"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.commands, m.duration, m.registrations, m.bytes} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) GroupRegistered(group string, _ uint8, resolved bool) {
	m.registrations.WithLabelValues(group, strconv.FormatBool(resolved)).Inc()
}

func (m *Metrics) CommandCompleted(group string, commandID uint8, result rpc.Result, elapsed time.Duration) {
	cmd := commandLabel(commandID)
	m.commands.WithLabelValues(group, cmd, string(result)).Inc()
	m.duration.WithLabelValues(group, cmd).Observe(elapsed.Seconds())
}

func (m *Metrics) BytesTransferred(dir rpc.Direction, n int) {
	m.bytes.WithLabelValues(string(dir)).Add(float64(n))
}

func commandLabel(id uint8) string {
	return "0x" + strconv.FormatUint(uint64(id)|0x100, 16)[1:]
}
