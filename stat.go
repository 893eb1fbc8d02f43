package proxylive

import (
	"encoding/json"
	"sync"
	"time"
)

// Stat represents the progress of a run
type Stat struct {
	// Total is the number of entries read from the document
	Total int `json:"total"`
	// Live is the number of entries classified live
	Live int `json:"live"`
	// Dead is the number of entries classified dead
	Dead int `json:"dead"`

	m         sync.RWMutex
	startedAt time.Time
}

func newStat(total int) *Stat {
	return &Stat{Total: total, startedAt: time.Now()}
}

// MarshalJSON implements the json.Marshaler interface for Stat
// Returns:
//   - []byte: JSON representation of the statistics
//   - error: Any error that occurred during marshaling
func (s *Stat) MarshalJSON() ([]byte, error) {
	s.m.RLock()
	defer s.m.RUnlock()

	type Alias Stat

	return json.Marshal(&struct {
		Checked int   `json:"checked"`
		Elapsed int64 `json:"elapsed"`
		*Alias
	}{
		Checked: s.Live + s.Dead,
		Elapsed: time.Since(s.startedAt).Milliseconds(),
		Alias:   (*Alias)(s),
	})
}

// Counts returns the live and dead totals
func (s *Stat) Counts() (live, dead int) {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.Live, s.Dead
}

// add records the outcome of one probe
// Parameters:
//   - r: Result of the probe
func (s *Stat) add(r Result) {
	s.m.Lock()
	defer s.m.Unlock()

	if r.Live {
		s.Live++
	} else {
		s.Dead++
	}
}
