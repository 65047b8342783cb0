package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Test_Metrics_EndpointReturns200(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	newServerMetrics(reg)

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/metrics", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("want 200, got %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("want text/plain content-type, got %q", ct)
	}
}

func Test_Metrics_TrainCounterIncremented(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := newServerMetrics(reg)

	m.trainRequestsTotal.WithLabelValues("ok").Inc()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "docsage_train_requests_total" {
			for _, mm := range mf.GetMetric() {
				for _, lp := range mm.GetLabel() {
					if lp.GetName() == "outcome" && lp.GetValue() == "ok" {
						if mm.GetCounter().GetValue() != 1 {
							t.Errorf("want counter=1, got %v", mm.GetCounter().GetValue())
						}
						found = true
					}
				}
			}
		}
	}
	if !found {
		t.Error("docsage_train_requests_total{outcome=\"ok\"} not found in gathered metrics")
	}
}

func Test_Metrics_CorpusChunksGauge(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := newServerMetrics(reg)

	m.corpusChunks.Set(42)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	for _, mf := range mfs {
		if mf.GetName() == "docsage_corpus_chunks" {
			v := mf.GetMetric()[0].GetGauge().GetValue()
			if v != 42 {
				t.Errorf("want corpus_chunks=42, got %v", v)
			}
			return
		}
	}
	t.Error("docsage_corpus_chunks not found in gathered metrics")
}

// Test_Metrics_TrainRecordedThroughHandler exercises the full path: a train
// request through the server must increment the outcome counter.
func Test_Metrics_TrainRecordedThroughHandler(t *testing.T) {
	t.Parallel()

	s := testServerWith(t, &fakeIngester{}, &fakeAsker{}, nil, nil)

	body, ct := multipartDoc(t, "doc.txt", "hello")
	req := httptest.NewRequest(http.MethodPost, "/api/train", body)
	req.Header.Set("Content-Type", ct)
	if w := doRequest(t, s, req); w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}

	mfs, err := s.gatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "docsage_train_requests_total" {
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
				t.Errorf("want train counter=1, got %v", got)
			}
			return
		}
	}
	t.Error("docsage_train_requests_total not found after a successful train")
}
