package roster

// SlotRequirement bounds one slot on an instance. Min is a readiness
// threshold (never an admission gate); Max caps occupancy. A nil Max
// means unbounded.
type SlotRequirement struct {
	Slot Slot   `json:"slot"`
	Min  int    `json:"min,omitempty"`
	Max  *int   `json:"max,omitempty"`
	Note string `json:"note,omitempty"`
}

// CombinedPool merges several slots under one shared maximum. While a
// slot is part of a pool its individual Max is ignored; only the pool
// total is enforced.
type CombinedPool struct {
	Slots []Slot `json:"slots"`
	Max   int    `json:"max"`
}

// Contains reports whether the pool covers a slot.
func (p CombinedPool) Contains(slot Slot) bool {
	for _, s := range p.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Requirements is the full capacity shape of one instance.
type Requirements struct {
	Slots        []SlotRequirement `json:"slots,omitempty"`
	Pools        []CombinedPool    `json:"pools,omitempty"`
	MaxAttendees *int              `json:"max_attendees,omitempty"`
}

// SlotMax returns the effective individual maximum for a slot, or nil
// when the slot is unbounded or pool-governed.
func (r Requirements) SlotMax(slot Slot) *int {
	if r.PoolFor(slot) != nil {
		return nil
	}
	for _, sr := range r.Slots {
		if sr.Slot == slot {
			return sr.Max
		}
	}
	return nil
}

// PoolFor returns the combined pool governing a slot, or nil.
func (r Requirements) PoolFor(slot Slot) *CombinedPool {
	for i := range r.Pools {
		if r.Pools[i].Contains(slot) {
			return &r.Pools[i]
		}
	}
	return nil
}

// MinimumMet reports whether one slot's minimum is satisfied by the
// current occupancy. Slots without a positive minimum are always met.
func (r Requirements) MinimumMet(slot Slot, counts AggregateCounts) bool {
	for _, sr := range r.Slots {
		if sr.Slot == slot {
			return counts.BySlot[slot] >= sr.Min
		}
	}
	return true
}

// UnmetMinimums returns the slots still short of their minimum, mapped
// to the remaining shortfall. An empty map means the roster is ready.
func (r Requirements) UnmetMinimums(counts AggregateCounts) map[Slot]int {
	unmet := make(map[Slot]int)
	for _, sr := range r.Slots {
		if sr.Min > 0 && counts.BySlot[sr.Slot] < sr.Min {
			unmet[sr.Slot] = sr.Min - counts.BySlot[sr.Slot]
		}
	}
	return unmet
}

// MinimumsMet reports whether every slot minimum is satisfied.
func (r Requirements) MinimumsMet(counts AggregateCounts) bool {
	return len(r.UnmetMinimums(counts)) == 0
}

// AggregateCounts summarizes occupancy for one instance: total occupying
// entries, per-slot and per-status breakdowns, and the full per-slot
// per-status grid. Declined entries appear in the status breakdowns but
// never in Total or BySlot.
type AggregateCounts struct {
	Total        int                  `json:"total"`
	BySlot       map[Slot]int         `json:"by_slot,omitempty"`
	ByState      map[Status]int       `json:"by_status,omitempty"`
	BySlotStatus map[Slot]StatusCount `json:"by_slot_status,omitempty"`
}

// StatusCount is a per-status tally within one slot.
type StatusCount map[Status]int

// Aggregate computes occupancy counts from a full entry listing.
func Aggregate(entries []*Entry) AggregateCounts {
	agg := AggregateCounts{
		BySlot:       make(map[Slot]int),
		ByState:      make(map[Status]int),
		BySlotStatus: make(map[Slot]StatusCount),
	}
	for _, e := range entries {
		agg.ByState[e.Status]++
		if agg.BySlotStatus[e.Slot] == nil {
			agg.BySlotStatus[e.Slot] = make(StatusCount)
		}
		agg.BySlotStatus[e.Slot][e.Status]++
		if !e.Status.Occupies() {
			continue
		}
		agg.Total++
		agg.BySlot[e.Slot]++
	}
	return agg
}

// PoolCount sums occupancy across all slots of a pool.
func (a AggregateCounts) PoolCount(pool CombinedPool) int {
	n := 0
	for _, s := range pool.Slots {
		n += a.BySlot[s]
	}
	return n
}
