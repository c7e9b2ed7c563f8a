package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchaseAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchase_attempts_total",
			Help: "Ticket purchase attempts by outcome",
		},
		[]string{"outcome"},
	)

	webhookResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_results_total",
			Help: "Webhook deliveries by result",
		},
		[]string{"result"},
	)

	redemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_redemptions_total",
			Help: "Redemption attempts by outcome",
		},
		[]string{"outcome"},
	)

	signatureFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_signature_failures_total",
			Help: "Webhook deliveries rejected for an invalid signature",
		},
	)
)

func PurchaseAttempt(outcome string) {
	purchaseAttempts.WithLabelValues(outcome).Inc()
}

func WebhookResult(result string) {
	webhookResults.WithLabelValues(result).Inc()
}

func Redemption(outcome string) {
	redemptions.WithLabelValues(outcome).Inc()
}

func SignatureFailure() {
	signatureFailures.Inc()
}
