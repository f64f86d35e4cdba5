// Package store persists labeling runs, components, and feature rows to
// sqlite, grounded on the teacher's internal/db package: the same
// embedded-schema-plus-migrations bootstrap, WAL pragmas, and
// golang-migrate/iofs wiring, narrowed to this domain's three tables
// (runs, components, feature_rows).
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/voxellab/shapekit/internal/features"
)

//go:embed schema.sql
var schemaSQL string

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sqlite connection carrying this package's schema.
type DB struct {
	*sql.DB
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}
	return nil
}

// NewDB opens (or creates) the sqlite database at path, applies the
// WAL/busy-timeout pragmas, and ensures the schema is present: a brand
// new database is initialized from schema.sql and baselined at the
// latest migration version; an existing one is left alone (callers that
// need to move an older database forward call MigrateUp explicitly).
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	if err := applyPragmas(sqlDB); err != nil {
		return nil, err
	}
	db := &DB{sqlDB}

	var hasRuns bool
	err = sqlDB.QueryRow(`SELECT COUNT(*) > 0 FROM sqlite_master WHERE type='table' AND name='runs'`).Scan(&hasRuns)
	if err != nil {
		return nil, fmt.Errorf("store: checking for existing schema: %w", err)
	}
	if hasRuns {
		return db, nil
	}

	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("store: initializing schema: %w", err)
	}
	latest, err := latestMigrationVersion()
	if err != nil {
		return nil, err
	}
	if err := db.baselineAt(latest); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) migrationsSubFS() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}

func latestMigrationVersion() (uint, error) {
	return 1, nil
}

func (db *DB) baselineAt(version uint) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL, dirty INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("store: creating schema_migrations: %w", err)
	}
	_, err = db.Exec(`INSERT INTO schema_migrations (version, dirty) VALUES (?, 0)`, version)
	if err != nil {
		return fmt.Errorf("store: baselining at version %d: %w", version, err)
	}
	return nil
}

// MigrateUp applies every pending embedded migration, for callers
// upgrading an older database created before this package's schema grew
// new migrations.
func (db *DB) MigrateUp() error {
	sub, err := db.migrationsSubFS()
	if err != nil {
		return fmt.Errorf("store: migrations filesystem: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("store: iofs source: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("store: sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("store: migrate instance: %w", err)
	}
	m.Log = migrateLogger{}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("store: migrate up: %w", err)
	}
	return nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) { log.Printf("[migrate] "+format, v...) }
func (migrateLogger) Verbose() bool                           { return false }

// InsertRun records the start of a labeling run, keyed by a
// caller-supplied uuid.UUID (see pipeline.Run), and returns nil on
// success.
func (db *DB) InsertRun(runID uuid.UUID, createdUnix int64, source string) error {
	_, err := db.Exec(`INSERT INTO runs (run_id, created_unix, source) VALUES (?, ?, ?)`,
		runID.String(), createdUnix, source)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

// ComponentRecord is one persisted component, independent of its feature
// row (some callers only need the geometry-free summary).
type ComponentRecord struct {
	RunID                     uuid.UUID
	T, FinalID, Size          int
	OnEdgeX, OnEdgeY, OnEdgeZ bool
}

// InsertComponent persists a component's summary and returns its
// generated row id, for use as feature_rows.component_id.
func (db *DB) InsertComponent(rec ComponentRecord) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO components (run_id, t, final_id, size, on_edge_x, on_edge_y, on_edge_z) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID.String(), rec.T, rec.FinalID, rec.Size, rec.OnEdgeX, rec.OnEdgeY, rec.OnEdgeZ,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert component: %w", err)
	}
	return res.LastInsertId()
}

// InsertFeatureRow persists a features.Row against a previously inserted
// component id.
func (db *DB) InsertFeatureRow(componentID int64, row features.Row) error {
	_, err := db.Exec(`
		INSERT INTO feature_rows (
			component_id, frame_index, frame_time, cx, cy, cz,
			perimeter, volume, sphericity, major_axis, minor_axis, minor_z_axis,
			eccentricity, hull_fill_ratio,
			m100, m010, m001, m110, m101, m011, m111,
			m200, m020, m002, m220, m202, m022, m222,
			convex_perimeter, convex_volume, is_2d
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		componentID, row.Index, row.Time, row.CX, row.CY, row.CZ,
		row.Perimeter, row.Volume, row.Sphericity, row.MajorAxis, row.MinorAxis, row.MinorZAxis,
		row.Eccentricity, row.HullFillRatio,
		row.Moments.M100, row.Moments.M010, row.Moments.M001,
		row.Moments.M110, row.Moments.M101, row.Moments.M011, row.Moments.M111,
		row.Moments.M200, row.Moments.M020, row.Moments.M002,
		row.Moments.M220, row.Moments.M202, row.Moments.M022, row.Moments.M222,
		row.ConvexPerimeter, row.ConvexVolume, row.Is2D,
	)
	if err != nil {
		return fmt.Errorf("store: insert feature row: %w", err)
	}
	return nil
}

// RunFeatureRows returns every feature row recorded for runID, ordered
// by frame index then the component's final id.
func (db *DB) RunFeatureRows(runID uuid.UUID) ([]features.Row, error) {
	frameRows, err := db.RunFrameRows(runID)
	if err != nil {
		return nil, err
	}
	out := make([]features.Row, len(frameRows))
	for i, fr := range frameRows {
		out[i] = fr.Row
	}
	return out, nil
}

// FrameRow pairs a stored features.Row with the frame (t-slice) index it
// was extracted from, for callers (cmd/reportgen) that need to group a
// run's rows back into per-frame dashboards.
type FrameRow struct {
	T   int
	Row features.Row
}

// RunFrameRows returns every feature row recorded for runID together
// with its originating frame index, ordered by frame index then the
// component's final id.
func (db *DB) RunFrameRows(runID uuid.UUID) ([]FrameRow, error) {
	rows, err := db.Query(`
		SELECT c.t, fr.frame_index, fr.frame_time, fr.cx, fr.cy, fr.cz,
		       fr.perimeter, fr.volume, fr.sphericity, fr.major_axis, fr.minor_axis, fr.minor_z_axis,
		       fr.eccentricity, fr.hull_fill_ratio,
		       fr.m100, fr.m010, fr.m001, fr.m110, fr.m101, fr.m011, fr.m111,
		       fr.m200, fr.m020, fr.m002, fr.m220, fr.m202, fr.m022, fr.m222,
		       fr.convex_perimeter, fr.convex_volume, fr.is_2d
		FROM feature_rows fr
		JOIN components c ON c.id = fr.component_id
		WHERE c.run_id = ?
		ORDER BY c.t ASC, c.final_id ASC`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("store: query run feature rows: %w", err)
	}
	defer rows.Close()

	var out []FrameRow
	for rows.Next() {
		var fr FrameRow
		r := &fr.Row
		if err := rows.Scan(
			&fr.T,
			&r.Index, &r.Time, &r.CX, &r.CY, &r.CZ,
			&r.Perimeter, &r.Volume, &r.Sphericity, &r.MajorAxis, &r.MinorAxis, &r.MinorZAxis,
			&r.Eccentricity, &r.HullFillRatio,
			&r.Moments.M100, &r.Moments.M010, &r.Moments.M001,
			&r.Moments.M110, &r.Moments.M101, &r.Moments.M011, &r.Moments.M111,
			&r.Moments.M200, &r.Moments.M020, &r.Moments.M002,
			&r.Moments.M220, &r.Moments.M202, &r.Moments.M022, &r.Moments.M222,
			&r.ConvexPerimeter, &r.ConvexVolume, &r.Is2D,
		); err != nil {
			return nil, fmt.Errorf("store: scan feature row: %w", err)
		}
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate feature rows: %w", err)
	}
	return out, nil
}
