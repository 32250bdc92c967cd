package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService 指标服务
type MetricsService struct {
	chatRequests   *prometheus.CounterVec
	ingestRequests *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	storeBackend   *prometheus.GaugeVec
}

// NewMetricsService 创建指标服务并注册采集器
func NewMetricsService() *MetricsService {
	return &MetricsService{
		chatRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ragchat_chat_requests_total",
			Help: "Chat requests by outcome.",
		}, []string{"outcome"}),
		ingestRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ragchat_ingest_requests_total",
			Help: "Ingestion requests by outcome.",
		}, []string{"outcome"}),
		searchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragchat_search_duration_seconds",
			Help:    "Vector search latency by backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"}),
		storeBackend: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ragchat_store_backend",
			Help: "Active document store backend (1 for the selected backend).",
		}, []string{"backend"}),
	}
}

// IncChat 记录一次聊天请求
func (ms *MetricsService) IncChat(outcome string) {
	ms.chatRequests.WithLabelValues(outcome).Inc()
}

// IncIngest 记录一次摄入请求
func (ms *MetricsService) IncIngest(outcome string) {
	ms.ingestRequests.WithLabelValues(outcome).Inc()
}

// ObserveSearch 记录一次向量检索耗时
func (ms *MetricsService) ObserveSearch(backend string, d time.Duration) {
	ms.searchDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// SetBackend 标记进程生命周期内选定的存储后端
func (ms *MetricsService) SetBackend(backend string) {
	ms.storeBackend.WithLabelValues(backend).Set(1)
}

// Handler 返回Prometheus指标的HTTP处理器
func (ms *MetricsService) Handler() http.Handler {
	return promhttp.Handler()
}

// ServeHTTP 实现http.Handler接口
func (ms *MetricsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ms.Handler().ServeHTTP(w, r)
}
