// Package repo implements the local registry: the SQLite database holding
// reference buildings and units, submitted surveys, and the append-only
// audit log.
package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
)

// Registry is the SQLite-backed store for reference data and submissions.
type Registry struct {
	db *sql.DB
}

// Open opens (and if needed creates) the registry database at path.
func Open(path string) (*Registry, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create registry directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	r := &Registry{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Registry) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS buildings (
			building_uuid     TEXT PRIMARY KEY,
			building_id       TEXT UNIQUE NOT NULL,
			governorate_code  TEXT NOT NULL,
			district_code     TEXT NOT NULL,
			subdistrict_code  TEXT NOT NULL,
			community_code    TEXT NOT NULL,
			neighborhood_code TEXT NOT NULL,
			neighborhood_name TEXT,
			building_number   TEXT NOT NULL,
			building_type     TEXT NOT NULL,
			building_status   TEXT NOT NULL,
			number_of_units   INTEGER NOT NULL DEFAULT 0,
			number_of_floors  INTEGER NOT NULL DEFAULT 1,
			latitude          REAL,
			longitude         REAL,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL,
			created_by        TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS units (
			unit_uuid    TEXT PRIMARY KEY,
			unit_id      TEXT UNIQUE NOT NULL,
			building_id  TEXT NOT NULL REFERENCES buildings(building_id),
			unit_type    TEXT NOT NULL,
			unit_number  TEXT NOT NULL,
			floor_number INTEGER NOT NULL DEFAULT 0,
			status       TEXT NOT NULL,
			description  TEXT,
			area_sqm     REAL,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL,
			created_by   TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS surveys (
			reference_number TEXT PRIMARY KEY,
			wizard_id        TEXT NOT NULL,
			clerk_id         TEXT,
			claim_number     TEXT,
			submitted_at     TEXT NOT NULL,
			snapshot         TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS claim_sequence (
			year INTEGER PRIMARY KEY,
			next INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			occurred_at TEXT NOT NULL,
			actor      TEXT,
			action     TEXT NOT NULL,
			entity     TEXT NOT NULL,
			entity_id  TEXT,
			details    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_buildings_search
			ON buildings(neighborhood_code, building_number)`,
		`CREATE INDEX IF NOT EXISTS idx_units_building ON units(building_id)`,
	}
	for _, stmt := range schema {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate registry: %w", err)
		}
	}
	return nil
}

// InsertBuilding stores a building in the registry.
func (r *Registry) InsertBuilding(b *domain.Building) error {
	_, err := r.db.Exec(`
		INSERT INTO buildings (
			building_uuid, building_id, governorate_code, district_code,
			subdistrict_code, community_code, neighborhood_code,
			neighborhood_name, building_number, building_type,
			building_status, number_of_units, number_of_floors,
			latitude, longitude, created_at, updated_at, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BuildingUUID, b.BuildingID, b.GovernorateCode, b.DistrictCode,
		b.SubdistrictCode, b.CommunityCode, b.NeighborhoodCode,
		b.NeighborhoodName, b.BuildingNumber, b.BuildingType,
		b.BuildingStatus, b.NumberOfUnits, b.NumberOfFloors,
		b.Latitude, b.Longitude,
		b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339),
		b.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert building %s: %w", b.BuildingID, err)
	}
	return nil
}

// SearchBuildings finds buildings by neighborhood code and an optional
// building-number fragment. Empty filters match everything; results are
// capped so a broad search cannot flood the picker.
func (r *Registry) SearchBuildings(neighborhood, numberFragment string) ([]*domain.Building, error) {
	query := `
		SELECT building_uuid, building_id, governorate_code, district_code,
		       subdistrict_code, community_code, neighborhood_code,
		       COALESCE(neighborhood_name, ''), building_number,
		       building_type, building_status, number_of_units,
		       number_of_floors, COALESCE(latitude, 0), COALESCE(longitude, 0),
		       created_at, updated_at, COALESCE(created_by, '')
		FROM buildings
		WHERE (? = '' OR neighborhood_code = ?)
		  AND (? = '' OR building_number LIKE ?)
		ORDER BY building_id
		LIMIT 100`

	rows, err := r.db.Query(query,
		neighborhood, neighborhood,
		numberFragment, "%"+numberFragment+"%")
	if err != nil {
		return nil, fmt.Errorf("search buildings: %w", err)
	}
	defer rows.Close()

	var out []*domain.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBuilding fetches one building by its administrative ID.
func (r *Registry) GetBuilding(buildingID string) (*domain.Building, error) {
	row := r.db.QueryRow(`
		SELECT building_uuid, building_id, governorate_code, district_code,
		       subdistrict_code, community_code, neighborhood_code,
		       COALESCE(neighborhood_name, ''), building_number,
		       building_type, building_status, number_of_units,
		       number_of_floors, COALESCE(latitude, 0), COALESCE(longitude, 0),
		       created_at, updated_at, COALESCE(created_by, '')
		FROM buildings WHERE building_id = ?`, buildingID)
	b, err := scanBuilding(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("building %s not found", buildingID)
	}
	return b, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuilding(row rowScanner) (*domain.Building, error) {
	var b domain.Building
	var createdAt, updatedAt string
	err := row.Scan(
		&b.BuildingUUID, &b.BuildingID, &b.GovernorateCode, &b.DistrictCode,
		&b.SubdistrictCode, &b.CommunityCode, &b.NeighborhoodCode,
		&b.NeighborhoodName, &b.BuildingNumber, &b.BuildingType,
		&b.BuildingStatus, &b.NumberOfUnits, &b.NumberOfFloors,
		&b.Latitude, &b.Longitude, &createdAt, &updatedAt, &b.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &b, nil
}

// InsertUnit stores a unit and bumps the owning building's unit count.
func (r *Registry) InsertUnit(u *domain.Unit) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert unit: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO units (
			unit_uuid, unit_id, building_id, unit_type, unit_number,
			floor_number, status, description, area_sqm,
			created_at, updated_at, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.UnitUUID, u.UnitID, u.BuildingID, u.UnitType, u.UnitNumber,
		u.FloorNumber, u.Status, u.Description, u.AreaSqm,
		u.CreatedAt.Format(time.RFC3339), u.UpdatedAt.Format(time.RFC3339),
		u.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert unit %s: %w", u.UnitID, err)
	}

	_, err = tx.Exec(`
		UPDATE buildings
		SET number_of_units = number_of_units + 1,
		    updated_at = ?
		WHERE building_id = ?`,
		time.Now().Format(time.RFC3339), u.BuildingID)
	if err != nil {
		return fmt.Errorf("bump unit count for %s: %w", u.BuildingID, err)
	}

	return tx.Commit()
}

// UnitsForBuilding lists the units registered under a building.
func (r *Registry) UnitsForBuilding(buildingID string) ([]*domain.Unit, error) {
	rows, err := r.db.Query(`
		SELECT unit_uuid, unit_id, building_id, unit_type, unit_number,
		       floor_number, status, COALESCE(description, ''),
		       COALESCE(area_sqm, 0), created_at, updated_at,
		       COALESCE(created_by, '')
		FROM units WHERE building_id = ? ORDER BY unit_number`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var out []*domain.Unit
	for rows.Next() {
		var u domain.Unit
		var createdAt, updatedAt string
		if err := rows.Scan(
			&u.UnitUUID, &u.UnitID, &u.BuildingID, &u.UnitType, &u.UnitNumber,
			&u.FloorNumber, &u.Status, &u.Description, &u.AreaSqm,
			&createdAt, &updatedAt, &u.CreatedBy,
		); err != nil {
			return nil, err
		}
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, &u)
	}
	return out, rows.Err()
}

// NextClaimSequence reserves and returns the next claim number for the
// given year.
func (r *Registry) NextClaimSequence(year int) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin claim sequence: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRow(`SELECT next FROM claim_sequence WHERE year = ?`, year).Scan(&next)
	switch {
	case err == sql.ErrNoRows:
		next = 1
		if _, err := tx.Exec(`INSERT INTO claim_sequence (year, next) VALUES (?, 2)`, year); err != nil {
			return 0, fmt.Errorf("init claim sequence: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("read claim sequence: %w", err)
	default:
		if _, err := tx.Exec(`UPDATE claim_sequence SET next = next + 1 WHERE year = ?`, year); err != nil {
			return 0, fmt.Errorf("advance claim sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}

// SaveSurvey stores a submitted survey snapshot keyed by its reference
// number, together with the claim number it produced.
func (r *Registry) SaveSurvey(referenceNumber, wizardID, clerkID, claimNumber string, snapshot []byte) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO surveys (
			reference_number, wizard_id, clerk_id, claim_number,
			submitted_at, snapshot
		) VALUES (?, ?, ?, ?, ?, ?)`,
		referenceNumber, wizardID, clerkID, claimNumber,
		time.Now().Format(time.RFC3339), string(snapshot))
	if err != nil {
		return fmt.Errorf("save survey %s: %w", referenceNumber, err)
	}
	logger.Info("Survey %s saved with claim %s", referenceNumber, claimNumber)
	return nil
}

// SurveyCount returns the number of submitted surveys.
func (r *Registry) SurveyCount() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM surveys`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count surveys: %w", err)
	}
	return n, nil
}

// AuditEntry is one row of the append-only audit log.
type AuditEntry struct {
	ID         int64
	OccurredAt time.Time
	Actor      string
	Action     string
	Entity     string
	EntityID   string
	Details    map[string]any
}

// AppendAudit records an action in the audit log. Details are stored as
// JSON.
func (r *Registry) AppendAudit(actor, action, entity, entityID string, details map[string]any) error {
	var payload string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		payload = string(data)
	}
	_, err := r.db.Exec(`
		INSERT INTO audit_log (occurred_at, actor, action, entity, entity_id, details)
		VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().Format(time.RFC3339), actor, action, entity, entityID, payload)
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// RecentAudit returns up to limit audit entries, newest first.
func (r *Registry) RecentAudit(limit int) ([]*AuditEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, occurred_at, COALESCE(actor, ''), action, entity,
		       COALESCE(entity_id, ''), COALESCE(details, '')
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	defer rows.Close()

	var out []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var occurredAt, details string
		if err := rows.Scan(&e.ID, &occurredAt, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &details); err != nil {
			return nil, err
		}
		e.OccurredAt, _ = time.Parse(time.RFC3339, occurredAt)
		if details != "" {
			_ = json.Unmarshal([]byte(details), &e.Details)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
