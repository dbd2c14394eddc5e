package middleware

import (
	"net/http"
	"time"

	"github.com/hitoshi/madr/internal/metrics"
)

// NewMetricsMiddleware はHTTPリクエスト数とレイテンシをPrometheusメトリクスとして記録する
// ミドルウェアを生成する。
func NewMetricsMiddleware(collector *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			collector.RecordHTTPRequest(r.Method, recorder.statusCode, time.Since(start))
		})
	}
}
