// ABOUTME: Load tests for the stateless reader endpoints
// ABOUTME: Tests classification and listing extraction under concurrent load

package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pagereader-api/api"
	"pagereader-api/api/dto/requests"
	"pagereader-api/api/handlers"
	"pagereader-api/core/config"
	"pagereader-api/core/domain"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/reader"
	"pagereader-api/pkg/featureflags"

	"github.com/PuerkitoBio/goquery"
)

// slowExtractor stands in for the extraction library with a fixed cost
type slowExtractor struct {
	delay time.Duration
}

func (s slowExtractor) Extract(ctx context.Context, _ *goquery.Document, _ *url.URL, _ interfaces.ExtractOptions) (*domain.ExtractedArticle, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &domain.ExtractedArticle{
		Title:       "Load test article",
		ContentHTML: "<p>Body</p>",
		TextContent: strings.Repeat("word ", 400),
	}, nil
}

// LoadTestMetrics tracks performance metrics
type LoadTestMetrics struct {
	TotalRequests  int64
	SuccessfulReqs int64
	FailedReqs     int64
	TotalDuration  time.Duration
	MinLatency     time.Duration
	MaxLatency     time.Duration
	AvgLatency     time.Duration
	P95Latency     time.Duration
	P99Latency     time.Duration
	RequestsPerSec float64
}

func newServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	apiInstance, router := api.NewAPI()
	pipeline := reader.NewPipeline(config.DefaultHeuristics(), interfaces.Dependencies{
		Extractor: slowExtractor{delay: delay},
	})
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{featureflags.ListingMode: true})
	handlers.NewReaderHandler(pipeline, nil, flags, nil).RegisterRoutes(apiInstance)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func articleMarkup(n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><head><title>Story %d</title></head><body><article>`, n)
	for i := 0; i < 16; i++ {
		b.WriteString(`<p>The harbour reopened on Monday after a week of repairs to the breakwater, and the first ferries left on schedule with a full load of passengers and freight.</p>`)
	}
	b.WriteString(`</article></body></html>`)
	return b.String()
}

func listingMarkup(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><main><h2>Latest</h2>`)
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<article><h3><a href="/news/%d-%d">Council approves budget item number %d</a></h3><a href="/tag/%d">City hall</a></article>`, n, i, i, i)
	}
	b.WriteString(`</main></body></html>`)
	return b.String()
}

func post(client *http.Client, endpoint string, body requests.DocumentRequest) (time.Duration, bool) {
	payload, _ := json.Marshal(body)

	start := time.Now()
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	latency := time.Since(start)
	if err != nil {
		return latency, false
	}
	io.ReadAll(resp.Body)
	resp.Body.Close()
	return latency, resp.StatusCode == http.StatusOK
}

func TestReaderEndpoints_100ConcurrentClients(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}

	server := newServer(t, 10*time.Millisecond)

	concurrency := 100
	requestsPerWorker := 10
	totalRequests := concurrency * requestsPerWorker

	var (
		successCount int64
		failCount    int64
		latencies    []time.Duration
		mu           sync.Mutex
		wg           sync.WaitGroup
	)

	startTime := time.Now()
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{Timeout: 30 * time.Second}

			for j := 0; j < requestsPerWorker; j++ {
				// alternate between the probe-heavy article path and the listing walk
				var latency time.Duration
				var ok bool
				if j%2 == 0 {
					latency, ok = post(client, server.URL+"/classify", requests.DocumentRequest{
						URL:  fmt.Sprintf("https://paper.example/news/%d-%d", workerID, j),
						HTML: articleMarkup(j),
					})
				} else {
					latency, ok = post(client, server.URL+"/listing", requests.DocumentRequest{
						URL:  "https://paper.example/",
						HTML: listingMarkup(j),
					})
				}

				mu.Lock()
				latencies = append(latencies, latency)
				mu.Unlock()

				if ok {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&failCount, 1)
				}
			}
		}(i)
	}
	wg.Wait()

	metrics := calculateMetrics(latencies, time.Since(startTime), totalRequests)
	metrics.SuccessfulReqs = successCount
	metrics.FailedReqs = failCount

	t.Logf("Load Test Results - 100 Concurrent Clients")
	t.Logf("==========================================")
	t.Logf("Total Requests: %d", metrics.TotalRequests)
	t.Logf("Successful: %d", metrics.SuccessfulReqs)
	t.Logf("Failed: %d", metrics.FailedReqs)
	t.Logf("Total Duration: %v", metrics.TotalDuration)
	t.Logf("Requests/sec: %.2f", metrics.RequestsPerSec)
	t.Logf("Min Latency: %v", metrics.MinLatency)
	t.Logf("Avg Latency: %v", metrics.AvgLatency)
	t.Logf("P95 Latency: %v", metrics.P95Latency)
	t.Logf("P99 Latency: %v", metrics.P99Latency)
	t.Logf("Max Latency: %v", metrics.MaxLatency)

	if metrics.FailedReqs > 0 {
		t.Errorf("Had %d failed requests", metrics.FailedReqs)
	}
	if metrics.P95Latency > 2*time.Second {
		t.Errorf("P95 latency too high: %v", metrics.P95Latency)
	}
}

func TestSanitizeEndpoint_SustainedRate(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}

	server := newServer(t, 0)

	targetRPS := 200
	duration := 3 * time.Second

	var (
		successCount int64
		failCount    int64
		requestCount int64
		latencies    []time.Duration
		mu           sync.Mutex
		wg           sync.WaitGroup
	)

	ticker := time.NewTicker(time.Second / time.Duration(targetRPS))
	defer ticker.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	fragment := strings.Repeat(`<p onclick="x()">Paragraph <a href="javascript:void(0)">link</a><script>alert(1)</script></p>`, 50)
	payload, _ := json.Marshal(requests.SanitizeRequest{HTML: fragment})

	startTime := time.Now()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			atomic.AddInt64(&requestCount, 1)
			wg.Add(1)
			go func() {
				defer wg.Done()
				reqStart := time.Now()
				resp, err := client.Post(server.URL+"/sanitize", "application/json", bytes.NewReader(payload))
				latency := time.Since(reqStart)

				mu.Lock()
				latencies = append(latencies, latency)
				mu.Unlock()

				if err != nil {
					atomic.AddInt64(&failCount, 1)
					return
				}
				io.ReadAll(resp.Body)
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&failCount, 1)
				}
			}()
		}
	}
	wg.Wait()

	metrics := calculateMetrics(latencies, time.Since(startTime), int(requestCount))
	metrics.SuccessfulReqs = successCount
	metrics.FailedReqs = failCount

	t.Logf("Load Test Results - %d Requests/Second", targetRPS)
	t.Logf("Actual RPS: %.2f", metrics.RequestsPerSec)
	t.Logf("Total Requests: %d", metrics.TotalRequests)
	t.Logf("Successful: %d", metrics.SuccessfulReqs)
	t.Logf("P95 Latency: %v", metrics.P95Latency)
	t.Logf("P99 Latency: %v", metrics.P99Latency)

	successRate := float64(metrics.SuccessfulReqs) / float64(metrics.TotalRequests)
	if successRate < 0.95 {
		t.Errorf("Success rate too low: %.2f%%", successRate*100)
	}
}

// calculateMetrics computes performance metrics from latency data
func calculateMetrics(latencies []time.Duration, totalDuration time.Duration, totalRequests int) LoadTestMetrics {
	if len(latencies) == 0 {
		return LoadTestMetrics{}
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	return LoadTestMetrics{
		TotalRequests:  int64(totalRequests),
		TotalDuration:  totalDuration,
		MinLatency:     sorted[0],
		MaxLatency:     sorted[len(sorted)-1],
		AvgLatency:     sum / time.Duration(len(latencies)),
		P95Latency:     sorted[int(float64(len(sorted))*0.95)],
		P99Latency:     sorted[int(float64(len(sorted))*0.99)],
		RequestsPerSec: float64(totalRequests) / totalDuration.Seconds(),
	}
}
