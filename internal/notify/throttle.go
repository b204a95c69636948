package notify

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// Throttle wraps a Notifier and drops repeats of the same subject inside the
// interval. Last-sent times persist across restarts in a small state file.
type Throttle struct {
	mu       sync.Mutex
	inner    Notifier
	interval time.Duration
	path     string
	lastSent map[string]time.Time
	now      func() time.Time
}

// NewThrottle loads prior state from path, if present.
func NewThrottle(inner Notifier, interval time.Duration, path string) *Throttle {
	t := &Throttle{
		inner:    inner,
		interval: interval,
		path:     path,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &t.lastSent); err != nil {
			logs.Warnf("reset throttle state, parse %s: %v", path, err)
			t.lastSent = make(map[string]time.Time)
		}
	}
	return t
}

// Notify forwards to the inner notifier unless the subject fired within the
// interval. A suppressed message is not an error.
func (t *Throttle) Notify(subject, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.lastSent[subject]; ok && now.Sub(last) < t.interval {
		logs.Debugf("throttled notify, subject: %s", subject)
		return nil
	}

	if err := t.inner.Notify(subject, body); err != nil {
		return err
	}

	t.lastSent[subject] = now
	if err := t.save(); err != nil {
		logs.Warnf("persist throttle state: %v", err)
	}
	return nil
}

func (t *Throttle) save() error {
	data, err := json.Marshal(t.lastSent)
	if err != nil {
		return errors.Wrap(err, "marshal throttle state")
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return errors.Wrap(err, "write throttle state").With("path", t.path)
	}
	return nil
}
