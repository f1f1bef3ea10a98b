package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scrapeTimeout bounds one gather of the registry.
const scrapeTimeout = 10 * time.Second

// Handler returns the Prometheus scrape handler for the collector's
// registry. Scrapes themselves are counted in
// promhttp_metric_handler_requests_total. A nil Collector serves 404.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}

	return promhttp.InstrumentMetricHandler(c.registry, promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			Registry:            c.registry,
			ErrorHandling:       promhttp.ContinueOnError,
			MaxRequestsInFlight: 4,
			Timeout:             scrapeTimeout,
		},
	))
}
