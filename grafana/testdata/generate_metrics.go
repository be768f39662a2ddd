// Command generate_metrics serves sample mailtriage metrics so dashboards
// can be built without real customer traffic.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	reg := prometheus.NewRegistry()
	m := triage.NewMetrics(reg)

	generateSampleData(m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go generateContinuousData(ctx, m)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Sample metrics server running on http://localhost:%s/metrics\n", port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println("\nTo use with Prometheus, add this to prometheus.yml:")
	fmt.Printf("  - job_name: 'mailtriage-test'\n    static_configs:\n      - targets: ['localhost:%s']\n", port)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// emit records one synthetic classification the way the pipeline would.
func emit(m *triage.Metrics) {
	c := randomCategory()
	imp := baseImportance(c)

	m.OracleObserved(time.Duration(200+rand.Intn(2800)) * time.Millisecond)

	switch c {
	case triage.AppointmentRequest:
		m.AppointmentScheduled()
	case triage.Complaint:
		// Some complaints are rated media by the model and escalated by age.
		if rand.Float64() < 0.35 {
			imp = triage.Medium.Escalate()
		}
		if rand.Float64() < 0.05 {
			m.AlertFailed()
		}
	case triage.Feedback:
		m.TestimonialSaved()
	}

	m.Classified(c, imp)
}

func generateSampleData(m *triage.Metrics) {
	for i := 0; i < 200; i++ {
		emit(m)
	}
}

func generateContinuousData(ctx context.Context, m *triage.Metrics) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for n := rand.Intn(4); n > 0; n-- {
				emit(m)
			}
		}
	}
}

func randomCategory() triage.Category {
	return triage.Categories[rand.Intn(len(triage.Categories))]
}

func baseImportance(c triage.Category) triage.Importance {
	switch c {
	case triage.Complaint:
		return triage.High
	case triage.AppointmentRequest:
		return triage.Medium
	default:
		return triage.Low
	}
}
