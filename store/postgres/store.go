// Package postgres provides a PostgreSQL implementation of the Muster
// composite store using grove ORM with Go-based migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/decisionlog"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/rank"
	"github.com/xraph/muster/roster"
	"github.com/xraph/muster/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL implementation of the composite Muster store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("muster: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("muster: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ──────────────────────────────────────────────────
// Membership operations
// ──────────────────────────────────────────────────

func (s *Store) CreateMembership(ctx context.Context, m *membership.Membership) error {
	existing, err := s.GetMembershipByUser(ctx, m.GuildID, m.UserID)
	if err != nil {
		return fmt.Errorf("muster: create membership: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("user %s in guild %s: %w", m.UserID, m.GuildID, muster.ErrDuplicateMembership)
	}

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.pgdb.NewInsert(membershipToModel(m)).Exec(ctx); err != nil {
		return fmt.Errorf("muster: create membership: %w", err)
	}
	return nil
}

func (s *Store) GetMembership(ctx context.Context, memID id.MembershipID) (*membership.Membership, error) {
	m := new(membershipModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", memID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("membership %s: %w", memID, muster.ErrMembershipNotFound)
		}
		return nil, fmt.Errorf("muster: get membership: %w", err)
	}
	return membershipFromModel(m), nil
}

func (s *Store) GetMembershipByUser(ctx context.Context, guildID id.GuildID, userID string) (*membership.Membership, error) {
	m := new(membershipModel)
	err := s.pgdb.NewSelect(m).
		Where("guild_id = ?", guildID.String()).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("muster: get membership by user: %w", err)
	}
	return membershipFromModel(m), nil
}

func (s *Store) UpdateMembership(ctx context.Context, m *membership.Membership) error {
	m.UpdatedAt = time.Now().UTC()
	if _, err := s.pgdb.NewUpdate(membershipToModel(m)).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("muster: update membership: %w", err)
	}
	return nil
}

func (s *Store) DeleteMembership(ctx context.Context, memID id.MembershipID) error {
	_, err := s.pgdb.NewDelete((*membershipModel)(nil)).
		Where("id = ?", memID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete membership: %w", err)
	}
	return nil
}

func (s *Store) ListMemberships(ctx context.Context, filter *membership.ListFilter) ([]*membership.Membership, error) {
	var models []membershipModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.Role != "" {
			q = q.Where("role = ?", string(filter.Role))
		}
		if filter.Approved != nil {
			if *filter.Approved {
				q = q.Where("approved_at IS NOT NULL").Where("role != ?", string(rank.RolePending))
			} else {
				q = q.Where("(approved_at IS NULL OR role = ?)", string(rank.RolePending))
			}
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("muster: list memberships: %w", err)
	}
	result := make([]*membership.Membership, len(models))
	for i := range models {
		result[i] = membershipFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountMemberships(ctx context.Context, filter *membership.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*membershipModel)(nil))
	if filter != nil {
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.Role != "" {
			q = q.Where("role = ?", string(filter.Role))
		}
		if filter.Approved != nil {
			if *filter.Approved {
				q = q.Where("approved_at IS NOT NULL").Where("role != ?", string(rank.RolePending))
			} else {
				q = q.Where("(approved_at IS NULL OR role = ?)", string(rank.RolePending))
			}
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count memberships: %w", err)
	}
	return count, nil
}

func (s *Store) CountByRole(ctx context.Context, guildID id.GuildID, role rank.Role) (int64, error) {
	count, err := s.pgdb.NewSelect((*membershipModel)(nil)).
		Where("guild_id = ?", guildID.String()).
		Where("role = ?", string(role)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count by role: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteMembershipsByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.pgdb.NewDelete((*membershipModel)(nil)).
		Where("guild_id = ?", guildID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete memberships by guild: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Override operations
// ──────────────────────────────────────────────────

func (s *Store) SetOverride(ctx context.Context, o *override.Override) error {
	if err := catalog.ValidateOverrides(o.Role, o.Grants); err != nil {
		return fmt.Errorf("%w: %w", muster.ErrInvariantViolation, err)
	}

	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	_, err := s.pgdb.NewInsert(overrideToModel(o)).
		OnConflict("(guild_id, role) DO UPDATE SET grants = EXCLUDED.grants, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: set override: %w", err)
	}
	return nil
}

func (s *Store) GetOverride(ctx context.Context, ovrID id.OverrideID) (*override.Override, error) {
	m := new(overrideModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", ovrID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("override %s: %w", ovrID, muster.ErrOverrideNotFound)
		}
		return nil, fmt.Errorf("muster: get override: %w", err)
	}
	return overrideFromModel(m), nil
}

func (s *Store) GetOverrides(ctx context.Context, guildID id.GuildID, role rank.Role) (catalog.Overrides, error) {
	m := new(overrideModel)
	err := s.pgdb.NewSelect(m).
		Where("guild_id = ?", guildID.String()).
		Where("role = ?", string(role)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("muster: get overrides: %w", err)
	}
	return catalog.Overrides(m.Grants), nil
}

func (s *Store) ListOverrides(ctx context.Context, filter *override.ListFilter) ([]*override.Override, error) {
	var models []overrideModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.Role != "" {
			q = q.Where("role = ?", string(filter.Role))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("muster: list overrides: %w", err)
	}
	result := make([]*override.Override, len(models))
	for i := range models {
		result[i] = overrideFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteOverride(ctx context.Context, guildID id.GuildID, role rank.Role) error {
	_, err := s.pgdb.NewDelete((*overrideModel)(nil)).
		Where("guild_id = ?", guildID.String()).
		Where("role = ?", string(role)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete override: %w", err)
	}
	return nil
}

func (s *Store) DeleteOverridesByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.pgdb.NewDelete((*overrideModel)(nil)).
		Where("guild_id = ?", guildID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete overrides by guild: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Instance operations
// ──────────────────────────────────────────────────

func (s *Store) CreateInstance(ctx context.Context, inst *event.Instance) error {
	now := time.Now().UTC()
	inst.CreatedAt = now
	inst.UpdatedAt = now
	if _, err := s.pgdb.NewInsert(instanceToModel(inst)).Exec(ctx); err != nil {
		return fmt.Errorf("muster: create instance: %w", err)
	}
	return nil
}

func (s *Store) GetInstance(ctx context.Context, instID id.InstanceID) (*event.Instance, error) {
	m := new(instanceModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", instID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("instance %s: %w", instID, muster.ErrInstanceNotFound)
		}
		return nil, fmt.Errorf("muster: get instance: %w", err)
	}
	return instanceFromModel(m), nil
}

func (s *Store) UpdateInstance(ctx context.Context, inst *event.Instance) error {
	inst.UpdatedAt = time.Now().UTC()
	if _, err := s.pgdb.NewUpdate(instanceToModel(inst)).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("muster: update instance: %w", err)
	}
	return nil
}

func (s *Store) DeleteInstance(ctx context.Context, instID id.InstanceID) error {
	_, err := s.pgdb.NewDelete((*instanceModel)(nil)).
		Where("id = ?", instID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete instance: %w", err)
	}
	return nil
}

func (s *Store) ListInstances(ctx context.Context, filter *event.ListFilter) ([]*event.Instance, error) {
	var models []instanceModel
	q := s.pgdb.NewSelect(&models).OrderExpr("starts_at ASC")
	if filter != nil {
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.Kind != "" {
			q = q.Where("kind = ?", string(filter.Kind))
		}
		if filter.IsCanceled != nil {
			q = q.Where("is_canceled = ?", *filter.IsCanceled)
		}
		if filter.StartsAfter != nil {
			q = q.Where("starts_at >= ?", *filter.StartsAfter)
		}
		if filter.StartsBefore != nil {
			q = q.Where("starts_at <= ?", *filter.StartsBefore)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("muster: list instances: %w", err)
	}
	result := make([]*event.Instance, len(models))
	for i := range models {
		result[i] = instanceFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountInstances(ctx context.Context, filter *event.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*instanceModel)(nil))
	if filter != nil {
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.Kind != "" {
			q = q.Where("kind = ?", string(filter.Kind))
		}
		if filter.IsCanceled != nil {
			q = q.Where("is_canceled = ?", *filter.IsCanceled)
		}
		if filter.StartsAfter != nil {
			q = q.Where("starts_at >= ?", *filter.StartsAfter)
		}
		if filter.StartsBefore != nil {
			q = q.Where("starts_at <= ?", *filter.StartsBefore)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count instances: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteInstancesByGuild(ctx context.Context, guildID id.GuildID) error {
	if err := s.DeleteEntriesByGuild(ctx, guildID); err != nil {
		return err
	}
	_, err := s.pgdb.NewDelete((*instanceModel)(nil)).
		Where("guild_id = ?", guildID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete instances by guild: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Roster entry operations
// ──────────────────────────────────────────────────

func (s *Store) UpsertEntry(ctx context.Context, e *roster.Entry) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	_, err := s.pgdb.NewInsert(entryToModel(e)).
		OnConflict("(instance_id, actor_id) DO UPDATE SET character_id = EXCLUDED.character_id, slot = EXCLUDED.slot, status = EXCLUDED.status, note = EXCLUDED.note, confirmed_at = EXCLUDED.confirmed_at, checked_in_at = EXCLUDED.checked_in_at, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: upsert entry: %w", err)
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, entryID id.EntryID) (*roster.Entry, error) {
	m := new(entryModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", entryID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("entry %s: %w", entryID, muster.ErrEntryNotFound)
		}
		return nil, fmt.Errorf("muster: get entry: %w", err)
	}
	return entryFromModel(m), nil
}

func (s *Store) GetEntryByActor(ctx context.Context, instID id.InstanceID, actorID string) (*roster.Entry, error) {
	m := new(entryModel)
	err := s.pgdb.NewSelect(m).
		Where("instance_id = ?", instID.String()).
		Where("actor_id = ?", actorID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("muster: get entry by actor: %w", err)
	}
	return entryFromModel(m), nil
}

func (s *Store) ListEntries(ctx context.Context, filter *roster.ListFilter) ([]*roster.Entry, error) {
	var models []entryModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.InstanceID != nil {
			q = q.Where("instance_id = ?", filter.InstanceID.String())
		}
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.ActorID != "" {
			q = q.Where("actor_id = ?", filter.ActorID)
		}
		if filter.Slot != "" {
			q = q.Where("slot = ?", string(filter.Slot))
		}
		if filter.Status != "" {
			q = q.Where("status = ?", string(filter.Status))
		}
		if filter.Occupying {
			q = q.Where("status != ''").Where("status != ?", string(roster.StatusDeclined))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("muster: list entries: %w", err)
	}
	result := make([]*roster.Entry, len(models))
	for i := range models {
		result[i] = entryFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountEntries(ctx context.Context, filter *roster.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*entryModel)(nil))
	if filter != nil {
		if filter.InstanceID != nil {
			q = q.Where("instance_id = ?", filter.InstanceID.String())
		}
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.ActorID != "" {
			q = q.Where("actor_id = ?", filter.ActorID)
		}
		if filter.Slot != "" {
			q = q.Where("slot = ?", string(filter.Slot))
		}
		if filter.Status != "" {
			q = q.Where("status = ?", string(filter.Status))
		}
		if filter.Occupying {
			q = q.Where("status != ''").Where("status != ?", string(roster.StatusDeclined))
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count entries: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryID id.EntryID) error {
	_, err := s.pgdb.NewDelete((*entryModel)(nil)).
		Where("id = ?", entryID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntriesByInstance(ctx context.Context, instID id.InstanceID) error {
	_, err := s.pgdb.NewDelete((*entryModel)(nil)).
		Where("instance_id = ?", instID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete entries by instance: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntriesByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.pgdb.NewDelete((*entryModel)(nil)).
		Where("guild_id = ?", guildID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete entries by guild: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Decision log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDecisionLog(ctx context.Context, e *decisionlog.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := s.pgdb.NewInsert(decisionLogToModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("muster: create decision log: %w", err)
	}
	return nil
}

func (s *Store) GetDecisionLog(ctx context.Context, logID id.DecisionLogID) (*decisionlog.Entry, error) {
	m := new(decisionLogModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", logID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("decision log %s: %w", logID, muster.ErrDecisionLogNotFound)
		}
		return nil, fmt.Errorf("muster: get decision log: %w", err)
	}
	return decisionLogFromModel(m), nil
}

func (s *Store) ListDecisionLogs(ctx context.Context, filter *decisionlog.QueryFilter) ([]*decisionlog.Entry, error) {
	var models []decisionLogModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.ActorID != "" {
			q = q.Where("actor_id = ?", filter.ActorID)
		}
		if filter.PermissionID != "" {
			q = q.Where("permission_id = ?", filter.PermissionID)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("muster: list decision logs: %w", err)
	}
	result := make([]*decisionlog.Entry, len(models))
	for i := range models {
		result[i] = decisionLogFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountDecisionLogs(ctx context.Context, filter *decisionlog.QueryFilter) (int64, error) {
	q := s.pgdb.NewSelect((*decisionLogModel)(nil))
	if filter != nil {
		if filter.GuildID != nil {
			q = q.Where("guild_id = ?", filter.GuildID.String())
		}
		if filter.ActorID != "" {
			q = q.Where("actor_id = ?", filter.ActorID)
		}
		if filter.PermissionID != "" {
			q = q.Where("permission_id = ?", filter.PermissionID)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count decision logs: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeDecisionLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.pgdb.NewDelete((*decisionLogModel)(nil)).
		Where("created_at < ?", before).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: purge decision logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("muster: purge decision logs rows: %w", err)
	}
	return n, nil
}

func (s *Store) DeleteDecisionLogsByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.pgdb.NewDelete((*decisionLogModel)(nil)).
		Where("guild_id = ?", guildID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete decision logs by guild: %w", err)
	}
	return nil
}
