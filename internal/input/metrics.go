package input

import (
	"sync/atomic"
	"time"
)

// Outcome names the rule that decided an event.
type Outcome uint8

const (
	OutcomeIgnored Outcome = iota
	OutcomeDisabled
	OutcomeFocusRedirect
	OutcomeHelperKey
	OutcomeNotMainWindow
	OutcomeWidgetPassthrough
	OutcomeModifierOnly
	OutcomeQuickmark
	OutcomeChooseTab
	OutcomeForcePassthrough
	OutcomeFollowLink
	OutcomeInsertAction
	OutcomeNormalAction
	OutcomeUnbound
	OutcomePanic

	outcomeCount
)

var outcomeNames = [...]string{
	OutcomeIgnored:           "ignored",
	OutcomeDisabled:          "disabled",
	OutcomeFocusRedirect:     "focus-redirect",
	OutcomeHelperKey:         "helper-key",
	OutcomeNotMainWindow:     "not-main-window",
	OutcomeWidgetPassthrough: "widget-passthrough",
	OutcomeModifierOnly:      "modifier-only",
	OutcomeQuickmark:         "quickmark",
	OutcomeChooseTab:         "choose-tab",
	OutcomeForcePassthrough:  "force-passthrough",
	OutcomeFollowLink:        "follow-link",
	OutcomeInsertAction:      "insert-action",
	OutcomeNormalAction:      "normal-action",
	OutcomeUnbound:           "unbound",
	OutcomePanic:             "panic",
}

// String returns the outcome name.
func (o Outcome) String() string {
	if o < outcomeCount {
		return outcomeNames[o]
	}
	return "unknown"
}

// Metrics counts dispatch decisions.
type Metrics struct {
	eventsTotal   atomic.Uint64
	consumedTotal atomic.Uint64
	actionsTotal  atomic.Uint64
	byOutcome     [outcomeCount]atomic.Uint64

	// Peak dispatch latency (all time), in nanoseconds
	peakLatency atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// RecordDispatch records the result of one dispatch and how long it took.
func (m *Metrics) RecordDispatch(res Result, latency time.Duration) {
	if m == nil || !m.enabled.Load() {
		return
	}

	m.eventsTotal.Add(1)
	if res.Consumed {
		m.consumedTotal.Add(1)
	}
	if res.Action != "" {
		m.actionsTotal.Add(1)
	}
	if res.Outcome < outcomeCount {
		m.byOutcome[res.Outcome].Add(1)
	}

	latencyNs := latency.Nanoseconds()
	for {
		current := m.peakLatency.Load()
		if latencyNs <= current {
			break
		}
		if m.peakLatency.CompareAndSwap(current, latencyNs) {
			break
		}
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	EventsTotal   uint64
	ConsumedTotal uint64
	ActionsTotal  uint64
	Panics        uint64

	// ByOutcome counts events per deciding rule, keyed by Outcome.String.
	ByOutcome map[string]uint64

	PeakLatency time.Duration
	Uptime      time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		EventsTotal:   m.eventsTotal.Load(),
		ConsumedTotal: m.consumedTotal.Load(),
		ActionsTotal:  m.actionsTotal.Load(),
		Panics:        m.byOutcome[OutcomePanic].Load(),
		ByOutcome:     make(map[string]uint64),
		PeakLatency:   time.Duration(m.peakLatency.Load()),
		Uptime:        time.Since(m.startTime),
	}
	for i := range m.byOutcome {
		if n := m.byOutcome[i].Load(); n > 0 {
			snap.ByOutcome[Outcome(i).String()] = n
		}
	}
	return snap
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.eventsTotal.Store(0)
	m.consumedTotal.Store(0)
	m.actionsTotal.Store(0)
	for i := range m.byOutcome {
		m.byOutcome[i].Store(0)
	}
	m.peakLatency.Store(0)
}
