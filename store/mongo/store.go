// Package mongo provides a MongoDB implementation of the Muster
// composite store using grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colMemberships   = "muster_memberships"
	colOverrides     = "muster_overrides"
	colInstances     = "muster_instances"
	colRosterEntries = "muster_roster_entries"
	colDecisionLogs  = "muster_decision_logs"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite Muster store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all muster collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()
	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("muster/mongo: migrate %s indexes: %w", col, err)
		}
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

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all muster collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colMemberships: {
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "guild_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "role", Value: 1}}},
		},
		colOverrides: {
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "role", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "guild_id", Value: 1}}},
		},
		colInstances: {
			{Keys: bson.D{{Key: "guild_id", Value: 1}}},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "kind", Value: 1}}},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "starts_at", Value: 1}}},
		},
		colRosterEntries: {
			{
				Keys:    bson.D{{Key: "instance_id", Value: 1}, {Key: "actor_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "instance_id", Value: 1}}},
			{Keys: bson.D{{Key: "guild_id", Value: 1}}},
			{Keys: bson.D{{Key: "instance_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colDecisionLogs: {
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "actor_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Membership operations
// ──────────────────────────────────────────────────

func (s *Store) CreateMembership(ctx context.Context, m *membership.Membership) error {
	t := now()
	m.CreatedAt = t
	m.UpdatedAt = t
	if _, err := s.mdb.NewInsert(membershipToModel(m)).Exec(ctx); err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s in guild %s: %w", m.UserID, m.GuildID, muster.ErrDuplicateMembership)
		}
		return fmt.Errorf("muster: create membership: %w", err)
	}
	return nil
}

func (s *Store) GetMembership(ctx context.Context, memID id.MembershipID) (*membership.Membership, error) {
	var m membershipModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": memID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("membership %s: %w", memID, muster.ErrMembershipNotFound)
		}
		return nil, fmt.Errorf("muster: get membership: %w", err)
	}
	return membershipFromModel(&m), nil
}

func (s *Store) GetMembershipByUser(ctx context.Context, guildID id.GuildID, userID string) (*membership.Membership, error) {
	var m membershipModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"guild_id": guildID.String(), "user_id": userID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("muster: get membership by user: %w", err)
	}
	return membershipFromModel(&m), nil
}

func (s *Store) UpdateMembership(ctx context.Context, m *membership.Membership) error {
	m.UpdatedAt = now()
	model := membershipToModel(m)
	res, err := s.mdb.NewUpdate(model).
		Filter(bson.M{"_id": model.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: update membership: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("membership %s: %w", m.ID, muster.ErrMembershipNotFound)
	}
	return nil
}

func (s *Store) DeleteMembership(ctx context.Context, memID id.MembershipID) error {
	_, err := s.mdb.NewDelete((*membershipModel)(nil)).
		Filter(bson.M{"_id": memID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete membership: %w", err)
	}
	return nil
}

func (s *Store) ListMemberships(ctx context.Context, filter *membership.ListFilter) ([]*membership.Membership, error) {
	var models []membershipModel
	f := membershipFilter(filter)
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*membershipModel)(nil)).
		Filter(membershipFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count memberships: %w", err)
	}
	return count, nil
}

func (s *Store) CountByRole(ctx context.Context, guildID id.GuildID, role rank.Role) (int64, error) {
	count, err := s.mdb.NewFind((*membershipModel)(nil)).
		Filter(bson.M{"guild_id": guildID.String(), "role": string(role)}).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count by role: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteMembershipsByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.mdb.NewDelete((*membershipModel)(nil)).
		Many().
		Filter(bson.M{"guild_id": guildID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete memberships by guild: %w", err)
	}
	return nil
}

func membershipFilter(filter *membership.ListFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.GuildID != nil {
		f["guild_id"] = filter.GuildID.String()
	}
	if filter.UserID != "" {
		f["user_id"] = filter.UserID
	}
	if filter.Role != "" {
		f["role"] = string(filter.Role)
	}
	if filter.Approved != nil {
		if *filter.Approved {
			f["approved_at"] = bson.M{"$ne": nil}
			f["role"] = bson.M{"$ne": string(rank.RolePending)}
		} else {
			f["$or"] = bson.A{
				bson.M{"approved_at": nil},
				bson.M{"role": string(rank.RolePending)},
			}
		}
	}
	return f
}

// ──────────────────────────────────────────────────
// Override operations
// ──────────────────────────────────────────────────

func (s *Store) SetOverride(ctx context.Context, o *override.Override) error {
	if err := catalog.ValidateOverrides(o.Role, o.Grants); err != nil {
		return fmt.Errorf("%w: %w", muster.ErrInvariantViolation, err)
	}

	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	o.UpdatedAt = t

	// One override row per (guild, role). Replace the existing document
	// in place so its _id survives the patch.
	var existing overrideModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"guild_id": o.GuildID.String(), "role": string(o.Role)}).
		Scan(ctx)
	switch {
	case err == nil:
		model := overrideToModel(o)
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if _, err := s.mdb.NewUpdate(model).Filter(bson.M{"_id": existing.ID}).Exec(ctx); err != nil {
			return fmt.Errorf("muster: set override: %w", err)
		}
		return nil
	case isNoDocuments(err):
		if _, err := s.mdb.NewInsert(overrideToModel(o)).Exec(ctx); err != nil {
			return fmt.Errorf("muster: set override: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("muster: set override: %w", err)
	}
}

func (s *Store) GetOverride(ctx context.Context, ovrID id.OverrideID) (*override.Override, error) {
	var m overrideModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": ovrID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("override %s: %w", ovrID, muster.ErrOverrideNotFound)
		}
		return nil, fmt.Errorf("muster: get override: %w", err)
	}
	return overrideFromModel(&m), nil
}

func (s *Store) GetOverrides(ctx context.Context, guildID id.GuildID, role rank.Role) (catalog.Overrides, error) {
	var m overrideModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"guild_id": guildID.String(), "role": string(role)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("muster: get overrides: %w", err)
	}
	return catalog.Overrides(m.Grants), nil
}

func (s *Store) ListOverrides(ctx context.Context, filter *override.ListFilter) ([]*override.Override, error) {
	var models []overrideModel
	f := bson.M{}
	if filter != nil {
		if filter.GuildID != nil {
			f["guild_id"] = filter.GuildID.String()
		}
		if filter.Role != "" {
			f["role"] = string(filter.Role)
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	_, err := s.mdb.NewDelete((*overrideModel)(nil)).
		Filter(bson.M{"guild_id": guildID.String(), "role": string(role)}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete override: %w", err)
	}
	return nil
}

func (s *Store) DeleteOverridesByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.mdb.NewDelete((*overrideModel)(nil)).
		Many().
		Filter(bson.M{"guild_id": guildID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete overrides by guild: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Instance operations
// ──────────────────────────────────────────────────

func (s *Store) CreateInstance(ctx context.Context, inst *event.Instance) error {
	t := now()
	inst.CreatedAt = t
	inst.UpdatedAt = t
	if _, err := s.mdb.NewInsert(instanceToModel(inst)).Exec(ctx); err != nil {
		return fmt.Errorf("muster: create instance: %w", err)
	}
	return nil
}

func (s *Store) GetInstance(ctx context.Context, instID id.InstanceID) (*event.Instance, error) {
	var m instanceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": instID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("instance %s: %w", instID, muster.ErrInstanceNotFound)
		}
		return nil, fmt.Errorf("muster: get instance: %w", err)
	}
	return instanceFromModel(&m), nil
}

func (s *Store) UpdateInstance(ctx context.Context, inst *event.Instance) error {
	inst.UpdatedAt = now()
	model := instanceToModel(inst)
	res, err := s.mdb.NewUpdate(model).
		Filter(bson.M{"_id": model.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: update instance: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("instance %s: %w", inst.ID, muster.ErrInstanceNotFound)
	}
	return nil
}

func (s *Store) DeleteInstance(ctx context.Context, instID id.InstanceID) error {
	// Mongo has no foreign keys; drop the roster alongside the instance.
	if err := s.DeleteEntriesByInstance(ctx, instID); err != nil {
		return err
	}
	_, err := s.mdb.NewDelete((*instanceModel)(nil)).
		Filter(bson.M{"_id": instID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete instance: %w", err)
	}
	return nil
}

func (s *Store) ListInstances(ctx context.Context, filter *event.ListFilter) ([]*event.Instance, error) {
	var models []instanceModel
	f := instanceFilter(filter)
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "starts_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*instanceModel)(nil)).
		Filter(instanceFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count instances: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteInstancesByGuild(ctx context.Context, guildID id.GuildID) error {
	if err := s.DeleteEntriesByGuild(ctx, guildID); err != nil {
		return err
	}
	_, err := s.mdb.NewDelete((*instanceModel)(nil)).
		Many().
		Filter(bson.M{"guild_id": guildID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete instances by guild: %w", err)
	}
	return nil
}

func instanceFilter(filter *event.ListFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.GuildID != nil {
		f["guild_id"] = filter.GuildID.String()
	}
	if filter.Kind != "" {
		f["kind"] = string(filter.Kind)
	}
	if filter.IsCanceled != nil {
		f["is_canceled"] = *filter.IsCanceled
	}
	if filter.StartsAfter != nil || filter.StartsBefore != nil {
		window := bson.M{}
		if filter.StartsAfter != nil {
			window["$gte"] = *filter.StartsAfter
		}
		if filter.StartsBefore != nil {
			window["$lte"] = *filter.StartsBefore
		}
		f["starts_at"] = window
	}
	if filter.Search != "" {
		f["title"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}
	return f
}

// ──────────────────────────────────────────────────
// Roster entry operations
// ──────────────────────────────────────────────────

func (s *Store) UpsertEntry(ctx context.Context, e *roster.Entry) error {
	t := now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t

	// One entry per (instance, actor). Replace the existing document in
	// place so its _id and created_at survive the upsert.
	var existing entryModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"instance_id": e.InstanceID.String(), "actor_id": e.ActorID}).
		Scan(ctx)
	switch {
	case err == nil:
		model := entryToModel(e)
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if _, err := s.mdb.NewUpdate(model).Filter(bson.M{"_id": existing.ID}).Exec(ctx); err != nil {
			return fmt.Errorf("muster: upsert entry: %w", err)
		}
		return nil
	case isNoDocuments(err):
		if _, err := s.mdb.NewInsert(entryToModel(e)).Exec(ctx); err != nil {
			return fmt.Errorf("muster: upsert entry: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("muster: upsert entry: %w", err)
	}
}

func (s *Store) GetEntry(ctx context.Context, entryID id.EntryID) (*roster.Entry, error) {
	var m entryModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": entryID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("entry %s: %w", entryID, muster.ErrEntryNotFound)
		}
		return nil, fmt.Errorf("muster: get entry: %w", err)
	}
	return entryFromModel(&m), nil
}

func (s *Store) GetEntryByActor(ctx context.Context, instID id.InstanceID, actorID string) (*roster.Entry, error) {
	var m entryModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"instance_id": instID.String(), "actor_id": actorID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("muster: get entry by actor: %w", err)
	}
	return entryFromModel(&m), nil
}

func (s *Store) ListEntries(ctx context.Context, filter *roster.ListFilter) ([]*roster.Entry, error) {
	var models []entryModel
	f := entryFilter(filter)
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*entryModel)(nil)).
		Filter(entryFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count entries: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryID id.EntryID) error {
	_, err := s.mdb.NewDelete((*entryModel)(nil)).
		Filter(bson.M{"_id": entryID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntriesByInstance(ctx context.Context, instID id.InstanceID) error {
	_, err := s.mdb.NewDelete((*entryModel)(nil)).
		Many().
		Filter(bson.M{"instance_id": instID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete entries by instance: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntriesByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.mdb.NewDelete((*entryModel)(nil)).
		Many().
		Filter(bson.M{"guild_id": guildID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete entries by guild: %w", err)
	}
	return nil
}

func entryFilter(filter *roster.ListFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.InstanceID != nil {
		f["instance_id"] = filter.InstanceID.String()
	}
	if filter.GuildID != nil {
		f["guild_id"] = filter.GuildID.String()
	}
	if filter.ActorID != "" {
		f["actor_id"] = filter.ActorID
	}
	if filter.Slot != "" {
		f["slot"] = string(filter.Slot)
	}
	if filter.Status != "" {
		f["status"] = string(filter.Status)
	}
	if filter.Occupying {
		f["status"] = bson.M{"$nin": bson.A{"", string(roster.StatusDeclined)}}
	}
	return f
}

// ──────────────────────────────────────────────────
// Decision log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDecisionLog(ctx context.Context, e *decisionlog.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	if _, err := s.mdb.NewInsert(decisionLogToModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("muster: create decision log: %w", err)
	}
	return nil
}

func (s *Store) GetDecisionLog(ctx context.Context, logID id.DecisionLogID) (*decisionlog.Entry, error) {
	var m decisionLogModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": logID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("decision log %s: %w", logID, muster.ErrDecisionLogNotFound)
		}
		return nil, fmt.Errorf("muster: get decision log: %w", err)
	}
	return decisionLogFromModel(&m), nil
}

func (s *Store) ListDecisionLogs(ctx context.Context, filter *decisionlog.QueryFilter) ([]*decisionlog.Entry, error) {
	var models []decisionLogModel
	f := decisionLogFilter(filter)
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*decisionLogModel)(nil)).
		Filter(decisionLogFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: count decision logs: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeDecisionLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*decisionLogModel)(nil)).
		Many().
		Filter(bson.M{"created_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("muster: purge decision logs: %w", err)
	}
	return res.DeletedCount(), nil
}

func (s *Store) DeleteDecisionLogsByGuild(ctx context.Context, guildID id.GuildID) error {
	_, err := s.mdb.NewDelete((*decisionLogModel)(nil)).
		Many().
		Filter(bson.M{"guild_id": guildID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("muster: delete decision logs by guild: %w", err)
	}
	return nil
}

func decisionLogFilter(filter *decisionlog.QueryFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.GuildID != nil {
		f["guild_id"] = filter.GuildID.String()
	}
	if filter.ActorID != "" {
		f["actor_id"] = filter.ActorID
	}
	if filter.PermissionID != "" {
		f["permission_id"] = filter.PermissionID
	}
	if filter.Decision != "" {
		f["decision"] = filter.Decision
	}
	if filter.After != nil || filter.Before != nil {
		window := bson.M{}
		if filter.After != nil {
			window["$gte"] = *filter.After
		}
		if filter.Before != nil {
			window["$lte"] = *filter.Before
		}
		f["created_at"] = window
	}
	return f
}
