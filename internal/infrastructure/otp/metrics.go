package otp

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/you/portalsvc/domain"
)

var (
	sendTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_otp_send_total",
		Help: "OTP send attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	verifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_otp_verify_total",
		Help: "OTP verify attempts by provider and outcome.",
	}, []string{"provider", "outcome"})
)

// instrumentedGateway decorates a gateway with outcome counters
type instrumentedGateway struct {
	next domain.OTPGateway
}

// WithMetrics wraps a gateway so send/verify outcomes are counted
func WithMetrics(next domain.OTPGateway) domain.OTPGateway {
	return &instrumentedGateway{next: next}
}

func (g *instrumentedGateway) Name() string { return g.next.Name() }

func (g *instrumentedGateway) Send(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
	result, err := g.next.Send(ctx, phone)
	sendTotal.WithLabelValues(g.next.Name(), outcome(err)).Inc()
	return result, err
}

func (g *instrumentedGateway) Verify(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
	result, err := g.next.Verify(ctx, identifier, code)
	verifyTotal.WithLabelValues(g.next.Name(), outcome(err)).Inc()
	return result, err
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
