package roster_test

import (
	"testing"

	"github.com/xraph/muster/roster"
)

func TestOccupies(t *testing.T) {
	occupying := []roster.Status{
		roster.StatusAttending,
		roster.StatusMaybe,
		roster.StatusSignedUp,
		roster.StatusConfirmed,
		roster.StatusCheckedIn,
	}
	for _, s := range occupying {
		if !s.Occupies() {
			t.Errorf("%s should occupy capacity", s)
		}
	}

	if roster.StatusDeclined.Occupies() {
		t.Error("declined should not occupy capacity")
	}
	if roster.Status("").Occupies() {
		t.Error("empty status should not occupy capacity")
	}
}

func TestStatusVocabularies(t *testing.T) {
	tests := []struct {
		status       roster.Status
		event, siege bool
	}{
		{roster.StatusAttending, true, false},
		{roster.StatusMaybe, true, false},
		{roster.StatusDeclined, true, false},
		{roster.StatusSignedUp, false, true},
		{roster.StatusConfirmed, false, true},
		{roster.StatusCheckedIn, false, true},
	}

	for _, tt := range tests {
		if got := tt.status.EventStatus(); got != tt.event {
			t.Errorf("%s.EventStatus() = %v, want %v", tt.status, got, tt.event)
		}
		if got := tt.status.SiegeStatus(); got != tt.siege {
			t.Errorf("%s.SiegeStatus() = %v, want %v", tt.status, got, tt.siege)
		}
	}
}

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		from, to roster.Status
		want     bool
	}{
		{roster.StatusSignedUp, roster.StatusConfirmed, true},
		{roster.StatusSignedUp, roster.StatusCheckedIn, true},
		{roster.StatusConfirmed, roster.StatusCheckedIn, true},

		// Same state is not an advance.
		{roster.StatusConfirmed, roster.StatusConfirmed, false},

		// Never backward.
		{roster.StatusConfirmed, roster.StatusSignedUp, false},
		{roster.StatusCheckedIn, roster.StatusConfirmed, false},
		{roster.StatusCheckedIn, roster.StatusSignedUp, false},

		// Declined is off the track entirely.
		{roster.StatusSignedUp, roster.StatusDeclined, false},
		{roster.StatusDeclined, roster.StatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := roster.CanAdvance(tt.from, tt.to); got != tt.want {
			t.Errorf("CanAdvance(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	entries := []*roster.Entry{
		{ActorID: "u1", Slot: "tank", Status: roster.StatusAttending},
		{ActorID: "u2", Slot: "tank", Status: roster.StatusMaybe},
		{ActorID: "u3", Slot: "healer", Status: roster.StatusAttending},
		{ActorID: "u4", Slot: "healer", Status: roster.StatusDeclined},
		{ActorID: "u5", Slot: "", Status: roster.StatusAttending},
	}

	agg := roster.Aggregate(entries)

	if agg.Total != 4 {
		t.Errorf("Total = %d, want 4 (declined excluded)", agg.Total)
	}
	if agg.BySlot["tank"] != 2 {
		t.Errorf("BySlot[tank] = %d, want 2 (maybe counts)", agg.BySlot["tank"])
	}
	if agg.BySlot["healer"] != 1 {
		t.Errorf("BySlot[healer] = %d, want 1", agg.BySlot["healer"])
	}
	if agg.ByState[roster.StatusDeclined] != 1 {
		t.Errorf("ByState[declined] = %d, want 1", agg.ByState[roster.StatusDeclined])
	}

	// The per-slot grid keeps statuses apart, declined included.
	tank := agg.BySlotStatus["tank"]
	if tank[roster.StatusAttending] != 1 || tank[roster.StatusMaybe] != 1 {
		t.Errorf("BySlotStatus[tank] = %v, want attending 1 and maybe 1", tank)
	}
	if agg.BySlotStatus["healer"][roster.StatusDeclined] != 1 {
		t.Errorf("BySlotStatus[healer] = %v, want declined 1", agg.BySlotStatus["healer"])
	}
}

func TestMinimums(t *testing.T) {
	two := 2
	req := roster.Requirements{
		Slots: []roster.SlotRequirement{
			{Slot: "tank", Min: 2, Max: &two},
			{Slot: "healer", Min: 1},
			{Slot: "flex"},
		},
	}

	agg := roster.Aggregate([]*roster.Entry{
		{ActorID: "u1", Slot: "tank", Status: roster.StatusAttending},
		{ActorID: "u2", Slot: "healer", Status: roster.StatusMaybe},
		{ActorID: "u3", Slot: "healer", Status: roster.StatusDeclined},
	})

	if req.MinimumMet("tank", agg) {
		t.Error("tank minimum should be unmet at 1/2")
	}
	if !req.MinimumMet("healer", agg) {
		t.Error("healer minimum should be met (maybe occupies, declined does not)")
	}
	if !req.MinimumMet("flex", agg) {
		t.Error("slots without a minimum are always met")
	}
	if !req.MinimumMet("unlisted", agg) {
		t.Error("unlisted slots are always met")
	}

	unmet := req.UnmetMinimums(agg)
	if len(unmet) != 1 || unmet["tank"] != 1 {
		t.Errorf("UnmetMinimums = %v, want tank short by 1", unmet)
	}
	if req.MinimumsMet(agg) {
		t.Error("MinimumsMet should be false while tank is short")
	}

	agg = roster.Aggregate([]*roster.Entry{
		{ActorID: "u1", Slot: "tank", Status: roster.StatusAttending},
		{ActorID: "u2", Slot: "tank", Status: roster.StatusMaybe},
		{ActorID: "u3", Slot: "healer", Status: roster.StatusAttending},
	})
	if !req.MinimumsMet(agg) {
		t.Errorf("MinimumsMet should be true, unmet: %v", req.UnmetMinimums(agg))
	}
}

func TestRequirementsSlotMax(t *testing.T) {
	two := 2
	five := 5
	req := roster.Requirements{
		Slots: []roster.SlotRequirement{
			{Slot: "tank", Min: 1, Max: &two},
			{Slot: "flex"},
			{Slot: "cannon", Max: &two},
			{Slot: "ram", Max: &two},
		},
		Pools: []roster.CombinedPool{
			{Slots: []roster.Slot{"cannon", "ram"}, Max: five},
		},
	}

	if got := req.SlotMax("tank"); got == nil || *got != 2 {
		t.Errorf("SlotMax(tank) = %v, want 2", got)
	}
	if got := req.SlotMax("flex"); got != nil {
		t.Errorf("SlotMax(flex) = %v, want nil (unbounded)", got)
	}
	if got := req.SlotMax("unlisted"); got != nil {
		t.Errorf("SlotMax(unlisted) = %v, want nil", got)
	}

	// Pool membership suppresses the individual max.
	if got := req.SlotMax("cannon"); got != nil {
		t.Errorf("SlotMax(cannon) = %v, want nil while pooled", got)
	}

	pool := req.PoolFor("ram")
	if pool == nil || pool.Max != 5 {
		t.Fatalf("PoolFor(ram) = %v, want the shared pool", pool)
	}
	if req.PoolFor("tank") != nil {
		t.Error("PoolFor(tank) should be nil")
	}
}

func TestAggregatePoolCount(t *testing.T) {
	entries := []*roster.Entry{
		{ActorID: "u1", Slot: "cannon", Status: roster.StatusSignedUp},
		{ActorID: "u2", Slot: "cannon", Status: roster.StatusConfirmed},
		{ActorID: "u3", Slot: "ram", Status: roster.StatusCheckedIn},
		{ActorID: "u4", Slot: "ram", Status: roster.StatusDeclined},
	}
	agg := roster.Aggregate(entries)

	pool := roster.CombinedPool{Slots: []roster.Slot{"cannon", "ram"}, Max: 5}
	if got := agg.PoolCount(pool); got != 3 {
		t.Errorf("PoolCount = %d, want 3", got)
	}
}
