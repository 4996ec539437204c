package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "miniteen"

var (
	// httpRequests 按路由模板统计请求数
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	// stockRejections 加购/改量因库存被拒绝的次数
	stockRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "stock_rejections_total",
		Help:      "Cart mutations rejected because of stock",
	}, []string{"reason"})

	tasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "tasks_total",
		Help:      "Background tasks processed by type and result",
	}, []string{"type", "result"})
)

// ObserveHTTPRequest 记录一次 HTTP 请求
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordStockRejection 记录库存拒绝（out_of_stock / insufficient）
func RecordStockRejection(reason string) {
	stockRejections.WithLabelValues(reason).Inc()
}

// RecordTask 记录后台任务执行结果
func RecordTask(taskType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	tasksProcessed.WithLabelValues(taskType, result).Inc()
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
