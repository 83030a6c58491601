package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/regenai/regen-agent/internal/domain"
)

// FormStore persists land-profile forms in SQLite.
type FormStore struct {
	db *sql.DB
}

func NewFormStore(path string) (*FormStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite pragmas: %w", err)
	}
	return &FormStore{db: db}, nil
}

func (s *FormStore) Close() error {
	return s.db.Close()
}

func (s *FormStore) AutoMigrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS form_responses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		location TEXT NOT NULL,
		area_type TEXT NOT NULL DEFAULT '',
		soil_type TEXT NOT NULL DEFAULT '',
		water_source TEXT NOT NULL DEFAULT '',
		irrigation TEXT NOT NULL DEFAULT '',
		temperature TEXT NOT NULL DEFAULT '',
		rainfall TEXT NOT NULL DEFAULT '',
		sunlight TEXT NOT NULL DEFAULT '',
		land_size TEXT NOT NULL DEFAULT '',
		goal TEXT NOT NULL DEFAULT '',
		crop_duration TEXT NOT NULL DEFAULT '',
		specific_crop TEXT NOT NULL DEFAULT '',
		fertilizers_preference TEXT NOT NULL DEFAULT '',
		last_planted_at TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
		`CREATE INDEX IF NOT EXISTS idx_form_responses_user ON form_responses(user_id, id DESC);`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate form_responses: %w", err)
		}
	}
	return nil
}

const formColumns = `id, user_id, location, area_type, soil_type, water_source, irrigation,
	temperature, rainfall, sunlight, land_size, goal, crop_duration, specific_crop,
	fertilizers_preference, last_planted_at, created_at, updated_at`

func (s *FormStore) Create(ctx context.Context, form *domain.Form) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `INSERT INTO form_responses (
		user_id, location, area_type, soil_type, water_source, irrigation,
		temperature, rainfall, sunlight, land_size, goal, crop_duration,
		specific_crop, fertilizers_preference, last_planted_at, created_at, updated_at
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		string(form.UserID), form.Location, form.AreaType, form.SoilType, form.WaterSrc,
		form.Irrigation, form.Temperature, form.Rainfall, form.Sunlight, form.LandSize,
		string(form.Goal), form.CropDuration, form.SpecificCrop, form.Fertilizers,
		form.LastPlantedAt, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert form id: %w", err)
	}
	form.ID = domain.FormID(id)
	form.CreatedAt = now
	form.UpdatedAt = now
	return nil
}

func (s *FormStore) Update(ctx context.Context, form *domain.Form) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `UPDATE form_responses SET
		location=?, area_type=?, soil_type=?, water_source=?, irrigation=?,
		temperature=?, rainfall=?, sunlight=?, land_size=?, goal=?, crop_duration=?,
		specific_crop=?, fertilizers_preference=?, last_planted_at=?, updated_at=?
		WHERE id=? AND user_id=?`,
		form.Location, form.AreaType, form.SoilType, form.WaterSrc, form.Irrigation,
		form.Temperature, form.Rainfall, form.Sunlight, form.LandSize, string(form.Goal),
		form.CropDuration, form.SpecificCrop, form.Fertilizers, form.LastPlantedAt,
		now.Format(time.RFC3339Nano), int64(form.ID), string(form.UserID),
	)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update form rows: %w", err)
	}
	if n == 0 {
		return domain.ErrFormNotFound
	}
	form.UpdatedAt = now
	return nil
}

func (s *FormStore) Delete(ctx context.Context, userID domain.UserID, id domain.FormID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM form_responses WHERE id=? AND user_id=?`, int64(id), string(userID))
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete form rows: %w", err)
	}
	if n == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

func (s *FormStore) GetByID(ctx context.Context, userID domain.UserID, id domain.FormID) (*domain.Form, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+formColumns+` FROM form_responses WHERE id=? AND user_id=?`,
		int64(id), string(userID))
	form, err := scanForm(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	return form, nil
}

func (s *FormStore) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Form, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+formColumns+` FROM form_responses WHERE user_id=? ORDER BY id DESC`,
		string(userID))
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var out []*domain.Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		out = append(out, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return out, nil
}

// LatestByUser returns the most recently created form, or (nil, nil) when
// the user has none yet.
func (s *FormStore) LatestByUser(ctx context.Context, userID domain.UserID) (*domain.Form, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+formColumns+` FROM form_responses WHERE user_id=? ORDER BY id DESC LIMIT 1`,
		string(userID))
	form, err := scanForm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest form: %w", err)
	}
	return form, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(r rowScanner) (*domain.Form, error) {
	var (
		f                    domain.Form
		id                   int64
		userID, goal         string
		createdAt, updatedAt string
	)
	err := r.Scan(&id, &userID, &f.Location, &f.AreaType, &f.SoilType, &f.WaterSrc,
		&f.Irrigation, &f.Temperature, &f.Rainfall, &f.Sunlight, &f.LandSize, &goal,
		&f.CropDuration, &f.SpecificCrop, &f.Fertilizers, &f.LastPlantedAt,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	f.ID = domain.FormID(id)
	f.UserID = domain.UserID(userID)
	f.Goal = domain.Goal(goal)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		f.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		f.UpdatedAt = t
	}
	return &f, nil
}
