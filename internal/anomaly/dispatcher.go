package anomaly

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"servicegov/internal/notify"
)

// DefaultCooldown is the minimum interval between two notifications for the
// same metric name.
const DefaultCooldown = 4 * time.Hour

const notifyTimeout = 30 * time.Second

// Dispatcher applies the alert policy to classification verdicts.
//
// Policy: WARNING verdicts are logged but never notified. CRITICAL verdicts
// are always logged and additionally trigger the notifier, at most once per
// cooldown window per metric. Notification failures are logged and swallowed;
// Consider never fails.
//
// Dispatch state is owned by the instance, not a package global, so each test
// or host can run with fresh state. The mutex makes Consider safe to call from
// concurrent request handlers.
type Dispatcher struct {
	mu       sync.Mutex
	lastSent map[string]time.Time

	cooldown time.Duration
	notifier notify.Notifier
	alertLog *Log
}

// NewDispatcher creates a dispatcher with empty state. A nil notifier falls
// back to the discarding transport, a non-positive cooldown to the 4h default.
// The alert log may be nil when persistence is not wanted (tests).
func NewDispatcher(notifier notify.Notifier, alertLog *Log, cooldown time.Duration) *Dispatcher {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Dispatcher{
		lastSent: make(map[string]time.Time),
		cooldown: cooldown,
		notifier: notifier,
		alertLog: alertLog,
	}
}

// Consider evaluates one verdict for the named metric at the given instant.
func (d *Dispatcher) Consider(metric string, verdict Verdict, now time.Time) {
	switch verdict.Classification {
	case Warning:
		msg := fmt.Sprintf("%s dropped below the %s baseline (z=%.2f)", metric, Warning, verdict.ZScore)
		log.Warn().Str("metric", metric).Float64("z", verdict.ZScore).Msg("Metric anomaly detected")
		d.append(Entry{
			Timestamp:      now,
			Severity:       "warning",
			Metric:         metric,
			Classification: verdict.Classification,
			Message:        msg,
		})

	case Critical:
		log.Error().Str("metric", metric).Float64("z", verdict.ZScore).Msg("Critical metric anomaly detected")

		notified := false
		if d.claim(metric, now) {
			notified = d.send(metric, verdict)
		} else {
			log.Info().Str("metric", metric).Dur("cooldown", d.cooldown).Msg("Alert suppressed, cooldown in effect")
		}

		d.append(Entry{
			Timestamp:      now,
			Severity:       "critical",
			Metric:         metric,
			Classification: verdict.Classification,
			Message:        fmt.Sprintf("%s fell critically below the baseline (z=%.2f)", metric, verdict.ZScore),
			Notified:       notified,
		})
	}
}

// claim records a dispatch attempt for the metric unless one happened within
// the cooldown window. Check and update are one critical section so two
// concurrent Consider calls cannot both pass.
func (d *Dispatcher) claim(metric string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.lastSent[metric]; ok && now.Sub(last) <= d.cooldown {
		return false
	}
	d.lastSent[metric] = now
	return true
}

func (d *Dispatcher) send(metric string, verdict Verdict) bool {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	subject := fmt.Sprintf("[CRITICAL] Service desk metric %s", metric)
	body := fmt.Sprintf("Metric %s fell critically below its trailing baseline (z-score %.2f). Latest month requires review.", metric, verdict.ZScore)
	if err := d.notifier.Send(ctx, subject, body); err != nil {
		log.Error().Err(err).Str("metric", metric).Msg("Alert notification failed")
		return false
	}
	log.Info().Str("metric", metric).Msg("Alert notification sent")
	return true
}

func (d *Dispatcher) append(entry Entry) {
	if d.alertLog == nil {
		return
	}
	if err := d.alertLog.Append(entry); err != nil {
		log.Error().Err(err).Str("metric", entry.Metric).Msg("Failed to append alert log entry")
	}
}
