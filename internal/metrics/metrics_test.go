package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CollectorがRecorderインターフェースを満たすことを検証
func TestCollector_ImplementsRecorder(t *testing.T) {
	var _ Recorder = (*Collector)(nil)
}

// 記録したメトリクスが/metricsのスクレイプ出力に現れることを検証
func TestCollector_RecordsAndExposes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordLoginFailure()
	c.RecordEntityCreated("romancista")
	c.RecordHTTPRequest(http.MethodGet, http.StatusOK, 25*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	output := string(body)

	wantLines := []string{
		"madr_login_success_total 1",
		"madr_login_failure_total 2",
		`madr_entities_created_total{kind="romancista"} 1`,
		`madr_http_requests_total{method="GET",status_code="200"} 1`,
	}
	for _, line := range wantLines {
		if !strings.Contains(output, line) {
			t.Errorf("metrics output missing %q", line)
		}
	}
}

// 重複登録がpanicすることを検証（レジストリ単位で1つのCollectorのみ許可）
func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}
