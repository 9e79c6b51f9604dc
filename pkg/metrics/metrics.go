package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpmetrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	ginmiddleware "github.com/slok/go-http-metrics/middleware/gin"
)

const namespace = "chat_mobile"

// Metrics agrupa os coletores da aplicação registrados em um único registry
type Metrics struct {
	registry *prometheus.Registry

	exchanges          *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	storeErrors        *prometheus.CounterVec
	httpMiddleware     middleware.Middleware
}

// New cria os coletores em um registry próprio, com os coletores de processo e Go
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		exchanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_exchanges_total",
			Help:      "Message exchanges processed, by message type and outcome",
		}, []string{"message_type", "outcome"}),
		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of calls to the generation service",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"kind", "outcome"}),
		storeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failures reported by the conversation store, by operation",
		}, []string{"operation"}),
		httpMiddleware: middleware.New(middleware.Config{
			Recorder: httpmetrics.NewRecorder(httpmetrics.Config{
				Registry: reg,
				Prefix:   namespace,
			}),
		}),
	}
}

// ObserveExchange registra o resultado de uma troca de mensagens
func (m *Metrics) ObserveExchange(messageType, outcome string) {
	m.exchanges.WithLabelValues(messageType, outcome).Inc()
}

// ObserveGeneration registra a duração de uma chamada de geração
func (m *Metrics) ObserveGeneration(kind, outcome string, elapsed time.Duration) {
	m.generationDuration.WithLabelValues(kind, outcome).Observe(elapsed.Seconds())
}

// ObserveStoreError registra uma falha do banco para a operação informada
func (m *Metrics) ObserveStoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

// GinMiddleware mede as requisições HTTP agrupadas pela rota registrada
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return ginmiddleware.Handler("", m.httpMiddleware)
}

// Handler expõe o registry no formato do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry retorna o registry usado pelos coletores
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
