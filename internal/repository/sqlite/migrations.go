package sqlite

type migration struct {
	version int
	sql     string
}

// версии идут подряд с 1
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	uuid        TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      INTEGER NOT NULL DEFAULT 0,
	due_date    DATETIME,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME
);

CREATE TABLE IF NOT EXISTS tasks (
	uuid                TEXT PRIMARY KEY,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	status              INTEGER NOT NULL DEFAULT 0,
	priority            INTEGER NOT NULL DEFAULT 1,
	project_id          TEXT NOT NULL,
	assignee_id         TEXT,
	assignee_name       TEXT NOT NULL DEFAULT '',
	due_date            DATETIME,
	estimated_pomodoros INTEGER,
	completed_pomodoros INTEGER NOT NULL DEFAULT 0,
	tags                TEXT NOT NULL DEFAULT '[]',
	is_completed        INTEGER NOT NULL DEFAULT 0,
	completed_at        DATETIME,
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME,
	version             INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS pomodoros (
	uuid                     TEXT PRIMARY KEY,
	task_id                  TEXT NOT NULL REFERENCES tasks(uuid) ON DELETE CASCADE,
	status                   INTEGER NOT NULL DEFAULT 0,
	type                     INTEGER NOT NULL DEFAULT 0,
	start_time               DATETIME,
	end_time                 DATETIME,
	paused_at                DATETIME,
	planned_duration_minutes INTEGER NOT NULL,
	actual_duration_minutes  INTEGER,
	paused_seconds           INTEGER NOT NULL DEFAULT 0,
	interruptions            INTEGER NOT NULL DEFAULT 0,
	notes                    TEXT NOT NULL DEFAULT '',
	created_at               DATETIME NOT NULL,
	updated_at               DATETIME
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_pomodoros_task_id ON pomodoros(task_id);
CREATE INDEX IF NOT EXISTS idx_pomodoros_status ON pomodoros(status);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
