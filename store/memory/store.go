// Package memory provides an in-memory implementation of the Muster composite
// store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/decisionlog"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/rank"
	"github.com/xraph/muster/roster"
)

// Compile-time interface checks.
var (
	_ membership.Store  = (*Store)(nil)
	_ override.Store    = (*Store)(nil)
	_ event.Store       = (*Store)(nil)
	_ roster.Store      = (*Store)(nil)
	_ decisionlog.Store = (*Store)(nil)
)

// Store is a thread-safe in-memory store for all Muster entities.
type Store struct {
	mu sync.RWMutex

	memberships  map[string]*membership.Membership
	overrides    map[string]*override.Override
	instances    map[string]*event.Instance
	entries      map[string]*roster.Entry
	decisionLogs map[string]*decisionlog.Entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		memberships:  make(map[string]*membership.Membership),
		overrides:    make(map[string]*override.Override),
		instances:    make(map[string]*event.Instance),
		entries:      make(map[string]*roster.Entry),
		decisionLogs: make(map[string]*decisionlog.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Membership Store
// ──────────────────────────────────────────────────

func (s *Store) CreateMembership(_ context.Context, m *membership.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.memberships {
		if existing.GuildID.String() == m.GuildID.String() && existing.UserID == m.UserID {
			return fmt.Errorf("user %s in guild %s: %w", m.UserID, m.GuildID, muster.ErrDuplicateMembership)
		}
	}
	s.memberships[m.ID.String()] = copyMembership(m)
	return nil
}

func (s *Store) GetMembership(_ context.Context, memID id.MembershipID) (*membership.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memberships[memID.String()]
	if !ok {
		return nil, fmt.Errorf("membership %s: %w", memID, muster.ErrMembershipNotFound)
	}
	return copyMembership(m), nil
}

func (s *Store) GetMembershipByUser(_ context.Context, guildID id.GuildID, userID string) (*membership.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.memberships {
		if m.GuildID.String() == guildID.String() && m.UserID == userID {
			return copyMembership(m), nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateMembership(_ context.Context, m *membership.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memberships[m.ID.String()]; !ok {
		return fmt.Errorf("membership %s: %w", m.ID, muster.ErrMembershipNotFound)
	}
	s.memberships[m.ID.String()] = copyMembership(m)
	return nil
}

func (s *Store) DeleteMembership(_ context.Context, memID id.MembershipID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memberships, memID.String())
	return nil
}

func (s *Store) ListMemberships(_ context.Context, filter *membership.ListFilter) ([]*membership.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*membership.Membership, 0, len(s.memberships))
	for _, m := range s.memberships {
		if filter != nil {
			if filter.GuildID != nil && m.GuildID.String() != filter.GuildID.String() {
				continue
			}
			if filter.UserID != "" && m.UserID != filter.UserID {
				continue
			}
			if filter.Role != "" && m.Role != filter.Role {
				continue
			}
			if filter.Approved != nil && m.Approved() != *filter.Approved {
				continue
			}
		}
		result = append(result, copyMembership(m))
	}
	return applyPaginationMem(result, paginationOptsMem(filter)), nil
}

func (s *Store) CountMemberships(ctx context.Context, filter *membership.ListFilter) (int64, error) {
	list, err := s.ListMemberships(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) CountByRole(_ context.Context, guildID id.GuildID, role rank.Role) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, m := range s.memberships {
		if m.GuildID.String() == guildID.String() && m.Role == role {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteMembershipsByGuild(_ context.Context, guildID id.GuildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, m := range s.memberships {
		if m.GuildID.String() == guildID.String() {
			delete(s.memberships, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Override Store
// ──────────────────────────────────────────────────

func (s *Store) SetOverride(_ context.Context, o *override.Override) error {
	if err := catalog.ValidateOverrides(o.Role, o.Grants); err != nil {
		return fmt.Errorf("%w: %w", muster.ErrInvariantViolation, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// One patch per (guild, role) — replace any previous row.
	for k, existing := range s.overrides {
		if existing.GuildID.String() == o.GuildID.String() && existing.Role == o.Role {
			delete(s.overrides, k)
		}
	}
	s.overrides[o.ID.String()] = copyOverride(o)
	return nil
}

func (s *Store) GetOverride(_ context.Context, ovrID id.OverrideID) (*override.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[ovrID.String()]
	if !ok {
		return nil, fmt.Errorf("override %s: %w", ovrID, muster.ErrOverrideNotFound)
	}
	return copyOverride(o), nil
}

func (s *Store) GetOverrides(_ context.Context, guildID id.GuildID, role rank.Role) (catalog.Overrides, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.overrides {
		if o.GuildID.String() == guildID.String() && o.Role == role {
			grants := make(catalog.Overrides, len(o.Grants))
			for k, v := range o.Grants {
				grants[k] = v
			}
			return grants, nil
		}
	}
	return nil, nil
}

func (s *Store) ListOverrides(_ context.Context, filter *override.ListFilter) ([]*override.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*override.Override, 0, len(s.overrides))
	for _, o := range s.overrides {
		if filter != nil {
			if filter.GuildID != nil && o.GuildID.String() != filter.GuildID.String() {
				continue
			}
			if filter.Role != "" && o.Role != filter.Role {
				continue
			}
		}
		result = append(result, copyOverride(o))
	}
	return applyPaginationOvr(result, paginationOptsOvr(filter)), nil
}

func (s *Store) DeleteOverride(_ context.Context, guildID id.GuildID, role rank.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, o := range s.overrides {
		if o.GuildID.String() == guildID.String() && o.Role == role {
			delete(s.overrides, k)
		}
	}
	return nil
}

func (s *Store) DeleteOverridesByGuild(_ context.Context, guildID id.GuildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, o := range s.overrides {
		if o.GuildID.String() == guildID.String() {
			delete(s.overrides, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Instance Store
// ──────────────────────────────────────────────────

func (s *Store) CreateInstance(_ context.Context, inst *event.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[inst.ID.String()] = copyInstance(inst)
	return nil
}

func (s *Store) GetInstance(_ context.Context, instID id.InstanceID) (*event.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[instID.String()]
	if !ok {
		return nil, fmt.Errorf("instance %s: %w", instID, muster.ErrInstanceNotFound)
	}
	return copyInstance(inst), nil
}

func (s *Store) UpdateInstance(_ context.Context, inst *event.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[inst.ID.String()]; !ok {
		return fmt.Errorf("instance %s: %w", inst.ID, muster.ErrInstanceNotFound)
	}
	s.instances[inst.ID.String()] = copyInstance(inst)
	return nil
}

func (s *Store) DeleteInstance(_ context.Context, instID id.InstanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, instID.String())
	for k, e := range s.entries {
		if e.InstanceID.String() == instID.String() {
			delete(s.entries, k)
		}
	}
	return nil
}

func (s *Store) ListInstances(_ context.Context, filter *event.ListFilter) ([]*event.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*event.Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		if filter != nil {
			if filter.GuildID != nil && inst.GuildID.String() != filter.GuildID.String() {
				continue
			}
			if filter.Kind != "" && inst.Kind != filter.Kind {
				continue
			}
			if filter.IsCanceled != nil && inst.IsCanceled != *filter.IsCanceled {
				continue
			}
			if filter.StartsAfter != nil && inst.StartsAt.Before(*filter.StartsAfter) {
				continue
			}
			if filter.StartsBefore != nil && inst.StartsAt.After(*filter.StartsBefore) {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(inst.Title), strings.ToLower(filter.Search)) {
				continue
			}
		}
		result = append(result, copyInstance(inst))
	}
	return applyPaginationInst(result, paginationOptsInst(filter)), nil
}

func (s *Store) CountInstances(ctx context.Context, filter *event.ListFilter) (int64, error) {
	list, err := s.ListInstances(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) DeleteInstancesByGuild(_ context.Context, guildID id.GuildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, inst := range s.instances {
		if inst.GuildID.String() == guildID.String() {
			delete(s.instances, k)
		}
	}
	for k, e := range s.entries {
		if e.GuildID.String() == guildID.String() {
			delete(s.entries, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Roster Store
// ──────────────────────────────────────────────────

func (s *Store) UpsertEntry(_ context.Context, e *roster.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// One entry per (instance, actor) — drop any row under another ID.
	for k, existing := range s.entries {
		if existing.InstanceID.String() == e.InstanceID.String() &&
			existing.ActorID == e.ActorID && k != e.ID.String() {
			delete(s.entries, k)
		}
	}
	s.entries[e.ID.String()] = copyEntry(e)
	return nil
}

func (s *Store) GetEntry(_ context.Context, entryID id.EntryID) (*roster.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID.String()]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", entryID, muster.ErrEntryNotFound)
	}
	return copyEntry(e), nil
}

func (s *Store) GetEntryByActor(_ context.Context, instID id.InstanceID, actorID string) (*roster.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.InstanceID.String() == instID.String() && e.ActorID == actorID {
			return copyEntry(e), nil
		}
	}
	return nil, nil
}

func (s *Store) ListEntries(_ context.Context, filter *roster.ListFilter) ([]*roster.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*roster.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter != nil {
			if filter.InstanceID != nil && e.InstanceID.String() != filter.InstanceID.String() {
				continue
			}
			if filter.GuildID != nil && e.GuildID.String() != filter.GuildID.String() {
				continue
			}
			if filter.ActorID != "" && e.ActorID != filter.ActorID {
				continue
			}
			if filter.Slot != "" && e.Slot != filter.Slot {
				continue
			}
			if filter.Status != "" && e.Status != filter.Status {
				continue
			}
			if filter.Occupying && !e.Status.Occupies() {
				continue
			}
		}
		result = append(result, copyEntry(e))
	}
	return applyPaginationEntry(result, paginationOptsEntry(filter)), nil
}

func (s *Store) CountEntries(ctx context.Context, filter *roster.ListFilter) (int64, error) {
	list, err := s.ListEntries(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) DeleteEntry(_ context.Context, entryID id.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, entryID.String())
	return nil
}

func (s *Store) DeleteEntriesByInstance(_ context.Context, instID id.InstanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if e.InstanceID.String() == instID.String() {
			delete(s.entries, k)
		}
	}
	return nil
}

func (s *Store) DeleteEntriesByGuild(_ context.Context, guildID id.GuildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if e.GuildID.String() == guildID.String() {
			delete(s.entries, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Decision Log Store
// ──────────────────────────────────────────────────

func (s *Store) CreateDecisionLog(_ context.Context, e *decisionlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisionLogs[e.ID.String()] = copyDecisionLog(e)
	return nil
}

func (s *Store) GetDecisionLog(_ context.Context, logID id.DecisionLogID) (*decisionlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.decisionLogs[logID.String()]
	if !ok {
		return nil, fmt.Errorf("decision log %s: %w", logID, muster.ErrDecisionLogNotFound)
	}
	return copyDecisionLog(e), nil
}

func (s *Store) ListDecisionLogs(_ context.Context, filter *decisionlog.QueryFilter) ([]*decisionlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*decisionlog.Entry, 0, len(s.decisionLogs))
	for _, e := range s.decisionLogs {
		if filter != nil {
			if filter.GuildID != nil && e.GuildID.String() != filter.GuildID.String() {
				continue
			}
			if filter.ActorID != "" && e.ActorID != filter.ActorID {
				continue
			}
			if filter.PermissionID != "" && e.PermissionID != filter.PermissionID {
				continue
			}
			if filter.Decision != "" && e.Decision != filter.Decision {
				continue
			}
			if filter.After != nil && e.CreatedAt.Before(*filter.After) {
				continue
			}
			if filter.Before != nil && e.CreatedAt.After(*filter.Before) {
				continue
			}
		}
		result = append(result, copyDecisionLog(e))
	}
	return applyPaginationDL(result, paginationOptsDL(filter)), nil
}

func (s *Store) CountDecisionLogs(ctx context.Context, filter *decisionlog.QueryFilter) (int64, error) {
	list, err := s.ListDecisionLogs(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) PurgeDecisionLogs(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for k, e := range s.decisionLogs {
		if e.CreatedAt.Before(before) {
			delete(s.decisionLogs, k)
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteDecisionLogsByGuild(_ context.Context, guildID id.GuildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.decisionLogs {
		if e.GuildID.String() == guildID.String() {
			delete(s.decisionLogs, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func copyMembership(m *membership.Membership) *membership.Membership {
	c := *m
	return &c
}

func copyOverride(o *override.Override) *override.Override {
	c := *o
	if o.Grants != nil {
		c.Grants = make(catalog.Overrides, len(o.Grants))
		for k, v := range o.Grants {
			c.Grants[k] = v
		}
	}
	return &c
}

func copyInstance(inst *event.Instance) *event.Instance {
	c := *inst
	if inst.Requirements.Slots != nil {
		c.Requirements.Slots = make([]roster.SlotRequirement, len(inst.Requirements.Slots))
		copy(c.Requirements.Slots, inst.Requirements.Slots)
	}
	if inst.Requirements.Pools != nil {
		c.Requirements.Pools = make([]roster.CombinedPool, len(inst.Requirements.Pools))
		copy(c.Requirements.Pools, inst.Requirements.Pools)
	}
	return &c
}

func copyEntry(e *roster.Entry) *roster.Entry {
	c := *e
	return &c
}

func copyDecisionLog(e *decisionlog.Entry) *decisionlog.Entry {
	c := *e
	return &c
}

// Pagination helpers for each entity type.
type pagOpts struct{ limit, offset int }

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset > 0 && p.offset < len(items) {
		items = items[p.offset:]
	} else if p.offset >= len(items) && p.offset > 0 {
		return nil
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}

func paginationOptsMem(f *membership.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPaginationMem(items []*membership.Membership, p pagOpts) []*membership.Membership {
	return applyPagination(items, p)
}

func paginationOptsOvr(f *override.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPaginationOvr(items []*override.Override, p pagOpts) []*override.Override {
	return applyPagination(items, p)
}

func paginationOptsInst(f *event.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPaginationInst(items []*event.Instance, p pagOpts) []*event.Instance {
	return applyPagination(items, p)
}

func paginationOptsEntry(f *roster.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPaginationEntry(items []*roster.Entry, p pagOpts) []*roster.Entry {
	return applyPagination(items, p)
}

func paginationOptsDL(f *decisionlog.QueryFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPaginationDL(items []*decisionlog.Entry, p pagOpts) []*decisionlog.Entry {
	return applyPagination(items, p)
}
