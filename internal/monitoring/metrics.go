package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 申领结果标签值
const (
	OutcomeClaimed   = "claimed"
	OutcomeRejected  = "rejected"
	OutcomeConflict  = "conflict"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 租约指标
	ClaimsTotal     *prometheus.CounterVec // 按结果统计的申领次数
	ReleasesTotal   *prometheus.CounterVec // 按结果统计的释放次数
	StoreErrors     prometheus.Counter     // 键值后端故障次数
	MessagesListed  prometheus.Counter     // 邮件列表读取次数
	PanicsRecovered prometheus.Counter     // 恢复的 panic 次数
}

// NewMetrics 创建监控指标
//
// promauto 将指标注册到默认 Registry，整个进程只应调用一次。
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smail_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smail_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ClaimsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smail_lease_claims_total",
				Help: "Total number of mailbox claim attempts by outcome",
			},
			[]string{"outcome"},
		),

		ReleasesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smail_lease_releases_total",
				Help: "Total number of mailbox release attempts by outcome",
			},
			[]string{"outcome"},
		),

		StoreErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "smail_lease_store_errors_total",
				Help: "Total number of lease store infrastructure failures",
			},
		),

		MessagesListed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "smail_messages_listed_total",
				Help: "Total number of message list reads",
			},
		),

		PanicsRecovered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "smail_panics_recovered_total",
				Help: "Total number of recovered panics",
			},
		),
	}
}

// HTTPHandler 返回 Prometheus 指标端点处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}
