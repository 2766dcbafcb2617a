package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/pond/components"
)

// Metrics exposes pond telemetry to Prometheus. It implements Sink.
type Metrics struct {
	registry *prometheus.Registry

	events     *prometheus.CounterVec
	fish       *prometheus.GaugeVec
	population *prometheus.GaugeVec
	simTime    prometheus.Gauge
	hunger     prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pond",
			Name:      "events_total",
			Help:      "Simulation events by type and species.",
		}, []string{"type", "species"}),
		fish: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pond",
			Name:      "fish",
			Help:      "Live fish by species.",
		}, []string{"species"}),
		population: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pond",
			Name:      "agents",
			Help:      "Live non-fish agents by kind.",
		}, []string{"kind"}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pond",
			Name:      "simulation_seconds",
			Help:      "Simulated time elapsed.",
		}),
		hunger: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pond",
			Name:      "hunger_mean",
			Help:      "Mean hunger across live fish.",
		}),
	}
	m.registry.MustRegister(m.events, m.fish, m.population, m.simTime, m.hunger)
	return m
}

// Record implements Sink.
func (m *Metrics) Record(e Event) {
	species := ""
	if e.Type.AboutFish() {
		species = e.Species.String()
	}
	m.events.WithLabelValues(e.Type.String(), species).Inc()
}

// ObserveCensus updates the population gauges.
func (m *Metrics) ObserveCensus(pop Population, simTime float64) {
	for _, s := range components.AllSpecies() {
		m.fish.WithLabelValues(s.String()).Set(float64(pop.Fish[s]))
	}
	m.population.WithLabelValues("plant").Set(float64(pop.Plants))
	m.population.WithLabelValues("invertebrate").Set(float64(pop.Invertebrates))
	m.population.WithLabelValues("larva").Set(float64(pop.Larvae))
	m.simTime.Set(simTime)

	mean, _, _, _, _ := DistributionStats(pop.Hunger)
	m.hunger.Set(mean)
}

// TrackClients exports count as the websocket client gauge. It is read on
// every scrape. Call it once.
func (m *Metrics) TrackClients(count func() int64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "pond",
		Name:      "websocket_clients",
		Help:      "Connected websocket clients.",
	}, func() float64 { return float64(count()) }))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
