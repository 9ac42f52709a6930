package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Muster store (SQLite).
var Migrations = migrate.NewGroup("muster")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_memberships",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS muster_memberships (
    id              TEXT PRIMARY KEY,
    app_id          TEXT NOT NULL DEFAULT '',
    guild_id        TEXT NOT NULL,
    user_id         TEXT NOT NULL,
    role            TEXT NOT NULL,
    is_creator      INTEGER NOT NULL DEFAULT 0,
    invited_by      TEXT NOT NULL DEFAULT '',
    approved_at     TEXT,
    metadata        TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(guild_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_muster_memberships_guild ON muster_memberships (guild_id);
CREATE INDEX IF NOT EXISTS idx_muster_memberships_user ON muster_memberships (user_id);
CREATE INDEX IF NOT EXISTS idx_muster_memberships_role ON muster_memberships (guild_id, role);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS muster_memberships`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_overrides",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS muster_overrides (
    id              TEXT PRIMARY KEY,
    app_id          TEXT NOT NULL DEFAULT '',
    guild_id        TEXT NOT NULL,
    role            TEXT NOT NULL,
    grants          TEXT NOT NULL DEFAULT '{}',
    updated_by      TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(guild_id, role)
);

CREATE INDEX IF NOT EXISTS idx_muster_overrides_guild ON muster_overrides (guild_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS muster_overrides`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_instances",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS muster_instances (
    id              TEXT PRIMARY KEY,
    app_id          TEXT NOT NULL DEFAULT '',
    guild_id        TEXT NOT NULL,
    kind            TEXT NOT NULL,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    starts_at       TEXT NOT NULL,
    ends_at         TEXT,
    requirements    TEXT NOT NULL DEFAULT '{}',
    is_canceled     INTEGER NOT NULL DEFAULT 0,
    created_by      TEXT NOT NULL DEFAULT '',
    metadata        TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_muster_instances_guild ON muster_instances (guild_id);
CREATE INDEX IF NOT EXISTS idx_muster_instances_kind ON muster_instances (guild_id, kind);
CREATE INDEX IF NOT EXISTS idx_muster_instances_starts ON muster_instances (guild_id, starts_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS muster_instances`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_roster_entries",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS muster_roster_entries (
    id              TEXT PRIMARY KEY,
    instance_id     TEXT NOT NULL REFERENCES muster_instances(id) ON DELETE CASCADE,
    guild_id        TEXT NOT NULL,
    actor_id        TEXT NOT NULL,
    character_id    TEXT,
    slot            TEXT NOT NULL DEFAULT '',
    status          TEXT NOT NULL,
    note            TEXT NOT NULL DEFAULT '',
    confirmed_at    TEXT,
    checked_in_at   TEXT,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(instance_id, actor_id)
);

CREATE INDEX IF NOT EXISTS idx_muster_roster_instance ON muster_roster_entries (instance_id);
CREATE INDEX IF NOT EXISTS idx_muster_roster_guild ON muster_roster_entries (guild_id);
CREATE INDEX IF NOT EXISTS idx_muster_roster_actor ON muster_roster_entries (instance_id, actor_id);
CREATE INDEX IF NOT EXISTS idx_muster_roster_status ON muster_roster_entries (instance_id, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS muster_roster_entries`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_decision_logs",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS muster_decision_logs (
    id              TEXT PRIMARY KEY,
    app_id          TEXT NOT NULL DEFAULT '',
    guild_id        TEXT NOT NULL,
    actor_id        TEXT NOT NULL,
    permission_id   TEXT NOT NULL DEFAULT '',
    target_id       TEXT NOT NULL DEFAULT '',
    decision        TEXT NOT NULL,
    reason          TEXT NOT NULL DEFAULT '',
    eval_time_ns    INTEGER NOT NULL DEFAULT 0,
    metadata        TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_muster_decision_logs_guild ON muster_decision_logs (guild_id, created_at);
CREATE INDEX IF NOT EXISTS idx_muster_decision_logs_actor ON muster_decision_logs (guild_id, actor_id);
CREATE INDEX IF NOT EXISTS idx_muster_decision_logs_created ON muster_decision_logs (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS muster_decision_logs`)
				return err
			},
		},
	)
}
