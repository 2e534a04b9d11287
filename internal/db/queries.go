package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/profile"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.LagnaError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

const profileColumns = `
	id, owner_raw, owner_norm, name_raw, name_norm, label,
	birth_json, ayanamsa, node_model, chart_json,
	created_at, updated_at, deleted_at`

const summaryColumns = `
	id, owner_raw, owner_norm, name_raw, name_norm, label, ayanamsa,
	lagna, moon_sign, moon_nakshatra, degraded,
	created_at, updated_at, deleted_at`

// row holds the encoded column values of a profile.
type row struct {
	birth, chart                   string
	lagna, moonSign, moonNakshatra int
	degraded                       bool
}

func encode(p *profile.Profile) (*row, error) {
	b, err := json.Marshal(p.Birth)
	if err != nil {
		return nil, err
	}
	c, err := json.Marshal(p.Chart)
	if err != nil {
		return nil, err
	}
	r := &row{birth: string(b), chart: string(c)}
	if p.Chart != nil {
		r.lagna = int(p.Chart.Ascendant.Placement.Sign)
		r.degraded = p.Chart.Degraded
		if moon := p.Chart.Planet(zodiac.Moon); moon != nil {
			r.moonSign = int(moon.Placement.Sign)
			r.moonNakshatra = int(moon.Placement.Nakshatra)
		}
	}
	return r, nil
}

// Insert stores a new profile.
func Insert(ctx context.Context, db *sql.DB, p *profile.Profile) error {
	r, err := encode(p)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO charts (
			id, owner_raw, owner_norm, name_raw, name_norm, label,
			birth_json, ayanamsa, node_model, chart_json,
			lagna, moon_sign, moon_nakshatra, degraded,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.ExecContext(ctx, query,
		p.ID, p.OwnerRaw, p.OwnerNorm, toNullString(p.NameRaw), toNullString(p.NameNorm), toNullString(p.Label),
		r.birth, p.Ayanamsa, string(p.NodeModel), r.chart,
		r.lagna, r.moonSign, r.moonNakshatra, r.degraded,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// Upsert inserts p, or replaces the chart of the active profile with the same
// owner and name in a single statement. It returns the ID that was written,
// which is the existing ID on replace.
func Upsert(ctx context.Context, db *sql.DB, p *profile.Profile) (string, error) {
	if p.NameNorm == nil {
		if err := Insert(ctx, db, p); err != nil {
			return "", err
		}
		return p.ID, nil
	}
	r, err := encode(p)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	query := `
		INSERT INTO charts (
			id, owner_raw, owner_norm, name_raw, name_norm, label,
			birth_json, ayanamsa, node_model, chart_json,
			lagna, moon_sign, moon_nakshatra, degraded,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT (owner_norm, name_norm) WHERE name_norm IS NOT NULL AND deleted_at IS NULL
		DO UPDATE SET
			name_raw = excluded.name_raw,
			label = excluded.label,
			birth_json = excluded.birth_json,
			ayanamsa = excluded.ayanamsa,
			node_model = excluded.node_model,
			chart_json = excluded.chart_json,
			lagna = excluded.lagna,
			moon_sign = excluded.moon_sign,
			moon_nakshatra = excluded.moon_nakshatra,
			degraded = excluded.degraded,
			updated_at = excluded.updated_at
		RETURNING id
	`

	var id string
	err = db.QueryRowContext(ctx, query,
		p.ID, p.OwnerRaw, p.OwnerNorm, toNullString(p.NameRaw), toNullString(p.NameNorm), toNullString(p.Label),
		r.birth, p.Ayanamsa, string(p.NodeModel), r.chart,
		r.lagna, r.moonSign, r.moonNakshatra, r.degraded,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return id, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves a profile by its ULID.
// If includeDeleted is false, soft-deleted profiles are excluded.
func GetByID(ctx context.Context, db *sql.DB, id string, includeDeleted bool) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM charts WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	p, err := scanProfile(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return p, nil
}

// GetByName retrieves a profile by normalized owner and name.
// If includeDeleted is false, soft-deleted profiles are excluded.
func GetByName(ctx context.Context, db *sql.DB, ownerNorm, nameNorm string, includeDeleted bool) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM charts WHERE owner_norm = ? AND name_norm = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	} else {
		// Prefer the active profile; otherwise the most recently updated deleted one.
		query += " ORDER BY (deleted_at IS NULL) DESC, updated_at DESC LIMIT 1"
	}

	p, err := scanProfile(db.QueryRowContext(ctx, query, ownerNorm, nameNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(nameNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return p, nil
}

// CheckNameExists checks if an active profile with the given name exists.
func CheckNameExists(ctx context.Context, db *sql.DB, ownerNorm, nameNorm string) (bool, error) {
	query := `
		SELECT 1 FROM charts
		WHERE owner_norm = ? AND name_norm = ? AND deleted_at IS NULL
		LIMIT 1
	`

	var exists int
	err := db.QueryRowContext(ctx, query, ownerNorm, nameNorm).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// ListFilter narrows List results. Nil fields do not filter.
type ListFilter struct {
	OwnerNorm     *string
	MoonNakshatra *zodiac.Nakshatra
}

// List returns profile summaries ordered by updated_at descending, plus
// the total count matching the filter.
func List(ctx context.Context, db *sql.DB, f ListFilter, limit, offset int, includeDeleted bool) ([]profile.Summary, int, error) {
	var where []string
	var args []any
	if !includeDeleted {
		where = append(where, "deleted_at IS NULL")
	}
	if f.OwnerNorm != nil {
		where = append(where, "owner_norm = ?")
		args = append(args, *f.OwnerNorm)
	}
	if f.MoonNakshatra != nil {
		where = append(where, "moon_nakshatra = ?")
		args = append(args, int(*f.MoonNakshatra))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM charts"+clause, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + summaryColumns + ` FROM charts` + clause +
		` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []profile.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return out, total, nil
}

// SoftDelete marks a profile as deleted by setting deleted_at.
func SoftDelete(ctx context.Context, db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE charts
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.ExecContext(ctx, query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// PurgeDeleted permanently removes soft-deleted profiles, optionally only
// for one owner and only those deleted at least olderThanDays ago. Zero days
// includes charts deleted in the current second.
func PurgeDeleted(ctx context.Context, db *sql.DB, ownerNorm *string, olderThanDays *int) (int, error) {
	query := "DELETE FROM charts WHERE deleted_at IS NOT NULL"
	var args []any
	if ownerNorm != nil {
		query += " AND owner_norm = ?"
		args = append(args, *ownerNorm)
	}
	if olderThanDays != nil {
		cutoff := time.Now().Add(-time.Duration(*olderThanDays) * 24 * time.Hour).Unix()
		query += " AND deleted_at <= ?"
		args = append(args, cutoff)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanProfile scans a single row into a Profile.
func scanProfile(s scanner) (*profile.Profile, error) {
	var (
		p         profile.Profile
		nameRaw   sql.NullString
		nameNorm  sql.NullString
		label     sql.NullString
		birthJSON string
		nodeModel string
		chartJSON string
		deletedAt sql.NullInt64
	)

	err := s.Scan(
		&p.ID, &p.OwnerRaw, &p.OwnerNorm, &nameRaw, &nameNorm, &label,
		&birthJSON, &p.Ayanamsa, &nodeModel, &chartJSON,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	p.NameRaw = fromNullString(nameRaw)
	p.NameNorm = fromNullString(nameNorm)
	p.Label = fromNullString(label)
	p.NodeModel = chart.NodeModel(nodeModel)
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Int64
	}

	if err := json.Unmarshal([]byte(birthJSON), &p.Birth); err != nil {
		return nil, err
	}
	if chartJSON != "" && chartJSON != "null" {
		p.Chart = new(chart.Chart)
		if err := json.Unmarshal([]byte(chartJSON), p.Chart); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func scanSummary(s scanner) (*profile.Summary, error) {
	var (
		sum                            profile.Summary
		nameRaw, nameNorm, label       sql.NullString
		lagna, moonSign, moonNakshatra int
		deletedAt                      sql.NullInt64
	)
	err := s.Scan(
		&sum.ID, &sum.Owner, &sum.OwnerNorm, &nameRaw, &nameNorm, &label, &sum.Ayanamsa,
		&lagna, &moonSign, &moonNakshatra, &sum.Degraded,
		&sum.CreatedAt, &sum.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	sum.Name = fromNullString(nameRaw)
	sum.NameNorm = fromNullString(nameNorm)
	sum.Label = fromNullString(label)
	sum.Lagna = zodiac.Sign(lagna)
	sum.MoonSign = zodiac.Sign(moonSign)
	sum.MoonNakshatra = zodiac.Nakshatra(moonNakshatra)
	if deletedAt.Valid {
		sum.DeletedAt = &deletedAt.Int64
	}
	return &sum, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
