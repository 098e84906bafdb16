// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/termfolio/internal/model"
)

// Collector はPrometheusメトリクスを収集する実装。
// upstream.Recorder と activity.FeedRecorder を実装する。
type Collector struct {
	upstreamRequests *prometheus.CounterVec
	upstreamStatus   *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	feedItems        prometheus.Gauge
	feedDegraded     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "termfolio_upstream_requests_total",
			Help: "外部データソースへのリクエスト数（結果別）",
		}, []string{"source", "result"}),
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "termfolio_upstream_http_status_total",
			Help: "外部データソースのHTTPステータスコード別のレスポンス数",
		}, []string{"source", "status_code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "termfolio_upstream_latency_seconds",
			Help:    "外部データソースへのリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		feedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "termfolio_feed_items",
			Help: "直近に生成したアクティビティフィードの件数",
		}),
		feedDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "termfolio_feed_degraded_total",
			Help: "データソースの失敗により縮退したフィード生成の回数",
		}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamStatus,
		c.upstreamLatency,
		c.feedItems,
		c.feedDegraded,
	)

	return c
}

// RecordUpstream は外部データソースへのリクエスト結果を記録する。
// statusCodeが0の場合はレスポンスを受信できなかったものとして扱う。
func (c *Collector) RecordUpstream(source string, statusCode int, duration time.Duration, err error) {
	c.upstreamRequests.WithLabelValues(source, resultLabel(err)).Inc()
	if statusCode > 0 {
		c.upstreamStatus.WithLabelValues(source, strconv.Itoa(statusCode)).Inc()
	}
	c.upstreamLatency.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordFeedBuilt はアクティビティフィードの生成結果を記録する。
func (c *Collector) RecordFeedBuilt(size int, degraded bool) {
	c.feedItems.Set(float64(size))
	if degraded {
		c.feedDegraded.Inc()
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrMalformedResponse):
		return "malformed"
	default:
		return "failure"
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
