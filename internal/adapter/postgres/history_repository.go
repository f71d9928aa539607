package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

// querier is the subset of *pgxpool.Pool the repository uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// HistoryRepository reads and writes the hail_history and hail_categories tables.
type HistoryRepository struct {
	db querier
}

// NewHistoryRepository creates a repository over a pool.
func NewHistoryRepository(db querier) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const eventColumns = `id::text, date::text, time::text, COALESCE(location, ''), city,
	COALESCE(state, ''), country, COALESCE(latitude, 0), COALESCE(longitude, 0),
	hail_size_mm, hail_size_category, COALESCE(duration_minutes, 0),
	COALESCE(wind_speed_kmh, 0), COALESCE(temperature_celsius, 0),
	COALESCE(damage_level, ''), COALESCE(affected_area_km2, 0), reports_count,
	severity_index, COALESCE(notes, ''), COALESCE(formatted_address, ''),
	COALESCE(geo_source, ''), created_at`

// List returns events matching f, newest first.
func (r *HistoryRepository) List(ctx context.Context, f domain.EventFilter) ([]domain.HailEvent, error) {
	query, args := buildListQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, tagError("list hail events", err)
	}
	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, tagError("scan hail events", err)
	}
	return events, nil
}

func buildListQuery(f domain.EventFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if c := strings.TrimSpace(f.Country); c != "" && !strings.EqualFold(c, "all") {
		add("country = $%d", c)
	}
	if f.StartDate != "" {
		add("date >= $%d::date", f.StartDate)
	}
	if f.EndDate != "" {
		add("date <= $%d::date", f.EndDate)
	}
	if f.MinSeverity != nil {
		add("severity_index >= $%d", *f.MinSeverity)
	}
	if c := strings.TrimSpace(f.City); c != "" {
		add("city ILIKE $%d", "%"+escapeLike(c)+"%")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(eventColumns)
	b.WriteString(" FROM hail_history")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY date DESC, time DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanEvent(row pgx.CollectableRow) (domain.HailEvent, error) {
	var e domain.HailEvent
	err := row.Scan(
		&e.ID, &e.Date, &e.Time, &e.Location, &e.City,
		&e.State, &e.Country, &e.Latitude, &e.Longitude,
		&e.HailSizeMM, &e.Category, &e.DurationMinutes,
		&e.WindSpeedKMH, &e.TemperatureCelsius,
		&e.DamageLevel, &e.AffectedAreaKM2, &e.ReportsCount,
		&e.SeverityIndex, &e.Notes, &e.FormattedAddress,
		&e.GeoSource, &e.CreatedAt,
	)
	return e, err
}

// Categories returns the hail size categories ordered by minimum size.
func (r *HistoryRepository) Categories(ctx context.Context) ([]domain.HailCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, size_min_mm, size_max_mm, damage_potential, description
		FROM hail_categories ORDER BY size_min_mm ASC`)
	if err != nil {
		return nil, tagError("list hail categories", err)
	}
	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HailCategory, error) {
		var c domain.HailCategory
		err := row.Scan(&c.ID, &c.Code, &c.Name, &c.SizeMinMM, &c.SizeMaxMM, &c.DamagePotential, &c.Description)
		return c, err
	})
	if err != nil {
		return nil, tagError("scan hail categories", err)
	}
	return cats, nil
}

// Exists reports whether an event with the same date, city (case-insensitive)
// and hail size is already stored.
func (r *HistoryRepository) Exists(ctx context.Context, date, city string, sizeMM float64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM hail_history
		WHERE date = $1::date AND lower(city) = lower($2)
		  AND round(hail_size_mm::numeric, 2) = round($3::numeric, 2))`,
		date, strings.TrimSpace(city), sizeMM,
	).Scan(&exists)
	if err != nil {
		return false, tagError("check hail event", err)
	}
	return exists, nil
}

// Insert stores an event. Re-inserting the same ID is a no-op.
func (r *HistoryRepository) Insert(ctx context.Context, e domain.HailEvent) error {
	_, err := r.db.Exec(ctx, `INSERT INTO hail_history (
			id, date, time, location, city, state, country, latitude, longitude,
			hail_size_mm, hail_size_category, duration_minutes, wind_speed_kmh,
			temperature_celsius, damage_level, affected_area_km2, reports_count,
			severity_index, notes, formatted_address, geo_source, created_at, updated_at
		) VALUES (
			$1::uuid, $2::date, $3::time, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $22
		)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Date, e.Time, nullString(e.Location), e.City, nullString(e.State), e.Country,
		nullCoord(e.Latitude, e.Longitude, e.Latitude), nullCoord(e.Latitude, e.Longitude, e.Longitude),
		e.HailSizeMM, string(e.Category), nullFloat(e.DurationMinutes), nullFloat(e.WindSpeedKMH),
		nullFloat(e.TemperatureCelsius), nullString(e.DamageLevel), nullFloat(e.AffectedAreaKM2), e.ReportsCount,
		e.SeverityIndex, nullString(e.Notes), nullString(e.FormattedAddress), nullString(e.GeoSource), e.CreatedAt,
	)
	if err != nil {
		return tagError("insert hail event", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *HistoryRepository) Ping(ctx context.Context) error {
	return tagError("ping database", r.db.Ping(ctx))
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

// nullCoord stores v only when the event has a position at all, so a real
// zero latitude or longitude survives.
func nullCoord(lat, lon, v float64) *float64 {
	if lat == 0 && lon == 0 {
		return nil
	}
	return &v
}
