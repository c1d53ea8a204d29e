package progress

import (
	"fmt"
	"strconv"
)

// Prefix namespaces every key this application writes.
const Prefix = "berlingo_"

// Global settings keys, used by the settings UI.
const (
	FlagDevMode     = "dev_mode"
	FlagSkipEnabled = "skip_enabled"
)

// Store is the key-value backend. db.KV implements it; tests use Memory.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	DeleteByPrefix(prefix string) error
}

// Record is the persisted outcome of one content item.
type Record struct {
	Done   bool `json:"done"`
	Hearts int  `json:"hearts"`
	Points int  `json:"points"`
}

// Tracker stores completion records keyed by content id, plus global flags.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

func doneKey(id string) string   { return Prefix + "done_" + id }
func heartsKey(id string) string { return Prefix + "hearts_" + id }
func pointsKey(id string) string { return Prefix + "points_" + id }

// MarkDone records completion with the session's remaining hearts and
// points snapshot.
func (t *Tracker) MarkDone(id string, hearts, points int) error {
	if err := t.store.Set(doneKey(id), "1"); err != nil {
		return err
	}
	if err := t.store.Set(heartsKey(id), strconv.Itoa(hearts)); err != nil {
		return err
	}
	return t.store.Set(pointsKey(id), strconv.Itoa(points))
}

// UnmarkDone clears the done flag so the content can be retaken.
func (t *Tracker) UnmarkDone(id string) error {
	return t.store.Delete(doneKey(id))
}

// IsDone reports completion. A done flag with zero stored hearts does not
// count: the learner ran out of lives and must retry, so dependent content
// stays locked.
func (t *Tracker) IsDone(id string) (bool, error) {
	done, ok, err := t.store.Get(doneKey(id))
	if err != nil {
		return false, err
	}
	if !ok || done != "1" {
		return false, nil
	}
	hearts, ok, err := t.store.Get(heartsKey(id))
	if err != nil {
		return false, err
	}
	if ok {
		if n, err := strconv.Atoi(hearts); err == nil && n == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Record returns the stored completion record for a content id.
func (t *Tracker) Record(id string) (Record, error) {
	var rec Record
	done, err := t.IsDone(id)
	if err != nil {
		return rec, err
	}
	rec.Done = done
	if v, ok, err := t.store.Get(heartsKey(id)); err != nil {
		return rec, err
	} else if ok {
		rec.Hearts, _ = strconv.Atoi(v)
	}
	if v, ok, err := t.store.Get(pointsKey(id)); err != nil {
		return rec, err
	} else if ok {
		rec.Points, _ = strconv.Atoi(v)
	}
	return rec, nil
}

// Reset clears every key under the application namespace, progress and
// settings alike.
func (t *Tracker) Reset() error {
	return t.store.DeleteByPrefix(Prefix)
}

// SetFlag stores a global boolean setting.
func (t *Tracker) SetFlag(name string, on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	return t.store.Set(Prefix+name, value)
}

// Flag reads a global boolean setting; missing flags are off.
func (t *Tracker) Flag(name string) (bool, error) {
	v, ok, err := t.store.Get(Prefix + name)
	if err != nil {
		return false, fmt.Errorf("read flag %s: %w", name, err)
	}
	return ok && v == "1", nil
}
