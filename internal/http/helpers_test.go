package http

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mailtriage/internal/logging"
	"github.com/fyrsmithlabs/mailtriage/internal/testimonial"
	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

type stubClassifier struct {
	mu     sync.Mutex
	result *triage.Classification
	err    error
	got    []triage.Email
}

func (s *stubClassifier) Classify(_ context.Context, email triage.Email) (*triage.Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, email)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubTestimonials struct {
	data []byte
	err  error
}

func (s stubTestimonials) Read(context.Context) ([]byte, error) {
	return s.data, s.err
}

func setupTestServer(t *testing.T, classifier Classifier, testimonials TestimonialReader, opts ...Option) *Server {
	t.Helper()
	if classifier == nil {
		classifier = &stubClassifier{}
	}
	if testimonials == nil {
		testimonials = stubTestimonials{err: testimonial.ErrNotFound}
	}
	opts = append([]Option{WithGatherer(prometheus.NewRegistry())}, opts...)

	server, err := NewServer(classifier, testimonials, logging.NewNop(), &Config{
		Host:        "localhost",
		Port:        8000,
		ServiceName: "mailtriage",
	}, opts...)
	require.NoError(t, err)
	return server
}
