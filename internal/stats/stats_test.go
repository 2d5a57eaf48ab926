package stats

import "testing"

func TestTotalsAccumulateAndDelta(t *testing.T) {
	var tot Totals
	tot.AddSteps(100)
	tot.AddBackups(3)
	tot.AddSearches(40)
	tot.AddCollisions(7)
	tot.AddContacts(12)

	snap := tot
	tot.AddSteps(50)
	tot.AddCollisions(1)

	d := tot.Delta(snap)
	if d.Steps != 50 || d.Collisions != 1 {
		t.Fatalf("unexpected delta: %+v", d)
	}
	if d.Backups != 0 || d.Searches != 0 || d.Contacts != 0 {
		t.Fatalf("untouched counters should be zero in delta: %+v", d)
	}
}

func TestTotalsReset(t *testing.T) {
	tot := Totals{Steps: 9, Backups: 1}
	tot.Reset()
	if tot != (Totals{}) {
		t.Fatalf("reset left %+v", tot)
	}
}

func TestTotalsString(t *testing.T) {
	tot := Totals{Steps: 2, Backups: 1, Searches: 3, Collisions: 4, Contacts: 5}
	want := "steps=2 backups=1 searches=3 collisions=4 contacts=5"
	if got := tot.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
