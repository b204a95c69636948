package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// ReadDay returns all events whose UTC date matches day, oldest first.
// Malformed lines are logged and skipped.
func ReadDay(path string, day time.Time) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open event log").With("path", path)
	}
	defer file.Close()

	y, m, d := day.UTC().Date()

	var events []Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			logs.Warnf("skip malformed event line: %v", err)
			continue
		}

		ey, em, ed := e.Ts.UTC().Date()
		if ey == y && em == m && ed == d {
			events = append(events, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan event log")
	}

	return events, nil
}

// Summary aggregates one day of events.
type Summary struct {
	Day     time.Time
	Entries int
	Exits   int
	Wins    int
	Losses  int
	PnL     float64
	Fees    float64
}

// Summarize folds events into a daily summary.
func Summarize(day time.Time, events []Event) Summary {
	s := Summary{Day: day.UTC().Truncate(24 * time.Hour)}
	for _, e := range events {
		s.Fees += e.Fee
		switch e.Kind {
		case KindEntry:
			s.Entries++
		case KindExit:
			s.Exits++
			s.PnL += e.PnL
			if e.PnL >= 0 {
				s.Wins++
			} else {
				s.Losses++
			}
		}
	}
	return s
}

// String renders the summary for logs and mail bodies.
func (s Summary) String() string {
	return fmt.Sprintf("day=%s entries=%d exits=%d wins=%d losses=%d pnl=%.2f fees=%.2f",
		s.Day.Format("2006-01-02"), s.Entries, s.Exits, s.Wins, s.Losses, s.PnL, s.Fees)
}
