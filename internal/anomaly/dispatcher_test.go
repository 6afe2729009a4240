package anomaly

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, subject)
	return nil
}

func criticalVerdict() Verdict {
	return Verdict{Classification: Critical, Color: ColorRed, ZScore: -9}
}

func TestDispatcher_CooldownSuppressesRepeats(t *testing.T) {
	notifier := &fakeNotifier{}
	d := NewDispatcher(notifier, nil, 4*time.Hour)
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	d.Consider("fcr_monthly", criticalVerdict(), now)
	d.Consider("fcr_monthly", criticalVerdict(), now.Add(90*time.Minute))
	if len(notifier.sent) != 1 {
		t.Fatalf("got %d notifications within cooldown, want 1", len(notifier.sent))
	}

	// After the window elapses a new notification goes out.
	d.Consider("fcr_monthly", criticalVerdict(), now.Add(4*time.Hour+time.Minute))
	if len(notifier.sent) != 2 {
		t.Fatalf("got %d notifications after cooldown, want 2", len(notifier.sent))
	}
}

func TestDispatcher_CooldownIsPerMetric(t *testing.T) {
	notifier := &fakeNotifier{}
	d := NewDispatcher(notifier, nil, 4*time.Hour)
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	d.Consider("fcr_monthly", criticalVerdict(), now)
	d.Consider("sla_compliance_p1", criticalVerdict(), now)
	if len(notifier.sent) != 2 {
		t.Fatalf("got %d notifications for two metrics, want 2", len(notifier.sent))
	}
}

func TestDispatcher_OnlyCriticalNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	d := NewDispatcher(notifier, nil, 0)
	now := time.Now()

	for _, c := range []Classification{Stable, Improvement, Warning, Insufficient} {
		d.Consider("fcr_monthly", Verdict{Classification: c}, now)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("non-critical verdicts produced %d notifications, want 0", len(notifier.sent))
	}
}

func TestDispatcher_NotificationFailureIsSwallowed(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	logPath := filepath.Join(t.TempDir(), "alerts.jsonl")
	d := NewDispatcher(notifier, NewLog(logPath), 4*time.Hour)

	// Must not panic or propagate; the log entry is still written.
	d.Consider("fcr_monthly", criticalVerdict(), time.Now())

	entries, err := NewLog(logPath).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d alert log entries, want 1", len(entries))
	}
	if entries[0].Notified {
		t.Errorf("entry marked notified despite transport failure")
	}
}

func TestDispatcher_LogsWarningsAndCriticals(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "alerts.jsonl")
	alertLog := NewLog(logPath)
	d := NewDispatcher(&fakeNotifier{}, alertLog, 4*time.Hour)
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	d.Consider("fcr_monthly", Verdict{Classification: Warning, Color: ColorYellow, ZScore: -2.4}, now)
	d.Consider("fcr_monthly", criticalVerdict(), now.Add(time.Hour))
	d.Consider("fcr_monthly", Verdict{Classification: Stable}, now.Add(2*time.Hour))

	entries, err := alertLog.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (warning + critical, stable unlogged)", len(entries))
	}
	if entries[0].Severity != "warning" || entries[0].Notified {
		t.Errorf("warning entry = %+v, want unnotified warning", entries[0])
	}
	if entries[1].Severity != "critical" || !entries[1].Notified {
		t.Errorf("critical entry = %+v, want notified critical", entries[1])
	}
}

func TestDispatcher_ConcurrentConsiderSingleNotification(t *testing.T) {
	notifier := &fakeNotifier{}
	d := NewDispatcher(notifier, nil, 4*time.Hour)
	now := time.Now()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			d.Consider("fcr_monthly", criticalVerdict(), now)
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if len(notifier.sent) != 1 {
		t.Errorf("got %d notifications from concurrent calls, want 1", len(notifier.sent))
	}
}
