package trigger

import (
	"fmt"
	"sync"

	"github.com/ctecg/score-api/pkg/circuitbreaker"
	"github.com/ctecg/score-api/pkg/httpclient"
	"github.com/ctecg/score-api/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	breakerOnce sync.Once
	breaker     *gobreaker.CircuitBreaker
)

// webhookBreaker shields the API from a flapping downstream endpoint. All
// webhook URLs share one breaker since they point at the same system.
func webhookBreaker() *gobreaker.CircuitBreaker {
	breakerOnce.Do(func() {
		breaker = circuitbreaker.New(circuitbreaker.DefaultConfig("webhook"))
	})
	return breaker
}

// CallAsync calls a webhook URL asynchronously with a record id appended.
// Used to notify downstream systems after a rating is submitted or a link
// is issued. Failures are logged but never block the operation.
func CallAsync(webhookURL, recordID string, httpClient httpclient.Client) {
	if webhookURL == "" {
		// No webhook configured, skip silently
		return
	}

	go func() {
		targetURL := fmt.Sprintf("%s%s", webhookURL, recordID)

		statusCode, err := circuitbreaker.Execute(webhookBreaker(), func() (int, error) {
			resp, err := httpClient.Get(targetURL)
			if err != nil {
				return 0, err
			}
			defer resp.Body.Close() //nolint:errcheck

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return resp.StatusCode, fmt.Errorf("webhook returned status %d", resp.StatusCode)
			}
			return resp.StatusCode, nil
		})

		if err != nil {
			if circuitbreaker.IsOpen(webhookBreaker()) {
				logger.Warn("Webhook circuit open, call skipped",
					zap.String("url", targetURL),
					zap.String("record_id", recordID))
				return
			}
			logger.Error("Failed to call webhook URL",
				zap.Error(err),
				zap.String("url", targetURL),
				zap.String("record_id", recordID),
				zap.Int("status_code", statusCode))
			return
		}

		logger.Info("Webhook called successfully",
			zap.String("url", targetURL),
			zap.String("record_id", recordID),
			zap.Int("status_code", statusCode))
	}()
}
