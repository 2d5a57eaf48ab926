// Package stats accumulates per-run simulation counters.
package stats

import "fmt"

// Totals counts work done over a simulation run. The zero value is ready to
// use. Totals only grow; use Delta against a snapshot for interval figures.
type Totals struct {
	Searches   int64
	Collisions int64
	Contacts   int64
	Steps      int64
	Backups    int64
}

// AddSearches records collision searches performed.
func (t *Totals) AddSearches(n int64) { t.Searches += n }

// AddCollisions records collisions handled.
func (t *Totals) AddCollisions(n int64) { t.Collisions += n }

// AddContacts records contacts maintained.
func (t *Totals) AddContacts(n int64) { t.Contacts += n }

// AddSteps records integration steps taken.
func (t *Totals) AddSteps(n int64) { t.Steps += n }

// AddBackups records steps retried at a smaller size.
func (t *Totals) AddBackups(n int64) { t.Backups += n }

// Delta returns the counts accumulated since the snapshot was taken.
func (t Totals) Delta(snapshot Totals) Totals {
	return Totals{
		Searches:   t.Searches - snapshot.Searches,
		Collisions: t.Collisions - snapshot.Collisions,
		Contacts:   t.Contacts - snapshot.Contacts,
		Steps:      t.Steps - snapshot.Steps,
		Backups:    t.Backups - snapshot.Backups,
	}
}

// Reset zeroes all counters.
func (t *Totals) Reset() { *t = Totals{} }

func (t Totals) String() string {
	return fmt.Sprintf("steps=%d backups=%d searches=%d collisions=%d contacts=%d",
		t.Steps, t.Backups, t.Searches, t.Collisions, t.Contacts)
}
