package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const opportunityColumns = `id, organization_id, title, description, tasks, requirements, event_date, start_time, end_time,
	duration_hours, opportunity_type, cause, location, max_volunteers, is_active, created_on, updated_on`

var opportunitySortColumns = map[domain.OpportunitySort]string{
	domain.OpportunitySortEventDate:     "event_date",
	domain.OpportunitySortCreatedAt:     "created_on",
	domain.OpportunitySortDurationHours: "duration_hours",
	domain.OpportunitySortTitle:         "title",
}

type opportunityRepository struct {
	db *sql.DB
}

func NewOpportunityRepository(db *sql.DB) repository.OpportunityRepository {
	return &opportunityRepository{db: db}
}

func scanOpportunity(row rowScanner) (*domain.Opportunity, error) {
	o := &domain.Opportunity{}
	var oppType, cause string
	var maxVolunteers sql.NullInt64
	err := row.Scan(&o.ID, &o.OrganizationID, &o.Title, &o.Description, &o.Tasks, &o.Requirements, &o.EventDate,
		&o.StartTime, &o.EndTime, &o.DurationHours, &oppType, &cause, &o.Location, &maxVolunteers, &o.IsActive,
		&o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, translate(err)
	}
	o.Type = domain.OpportunityType(oppType)
	o.Cause = domain.Cause(cause)
	if maxVolunteers.Valid {
		n := int(maxVolunteers.Int64)
		o.MaxVolunteers = &n
	}
	return o, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func (r *opportunityRepository) Create(ctx context.Context, o *domain.Opportunity) error {
	logger.EnterMethod("opportunityRepository.Create", "organizationID", o.OrganizationID, "title", o.Title)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedOn = now
	o.UpdatedOn = now
	query := `INSERT INTO opportunities (` + opportunityColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	logger.DatabaseCall("INSERT", "opportunities", "organizationID", o.OrganizationID)
	_, err := r.db.ExecContext(ctx, query, o.ID, o.OrganizationID, o.Title, o.Description, o.Tasks, o.Requirements,
		o.EventDate, o.StartTime, o.EndTime, o.DurationHours, string(o.Type), string(o.Cause), o.Location,
		nullInt(o.MaxVolunteers), o.IsActive, o.CreatedOn, o.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "opportunityID", o.ID)
	if err != nil {
		logger.ExitMethodWithError("opportunityRepository.Create", err)
		return translate(err)
	}
	logger.ExitMethod("opportunityRepository.Create", "opportunityID", o.ID)
	return nil
}

func (r *opportunityRepository) GetByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`
	return scanOpportunity(r.db.QueryRowContext(ctx, query, id))
}

func (r *opportunityRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Opportunity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = ANY($1)`
	return r.query(ctx, query, pq.Array(ids))
}

func (r *opportunityRepository) Update(ctx context.Context, o *domain.Opportunity) error {
	o.UpdatedOn = time.Now().UTC()
	query := `UPDATE opportunities SET title = $1, description = $2, tasks = $3, requirements = $4, event_date = $5,
	          start_time = $6, end_time = $7, duration_hours = $8, opportunity_type = $9, cause = $10, location = $11,
	          max_volunteers = $12, is_active = $13, updated_on = $14 WHERE id = $15`
	logger.DatabaseCall("UPDATE", "opportunities", "opportunityID", o.ID)
	res, err := r.db.ExecContext(ctx, query, o.Title, o.Description, o.Tasks, o.Requirements, o.EventDate, o.StartTime,
		o.EndTime, o.DurationHours, string(o.Type), string(o.Cause), o.Location, nullInt(o.MaxVolunteers), o.IsActive,
		o.UpdatedOn, o.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translate(err)
	}
	return requireAffected(res)
}

func (r *opportunityRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE opportunities SET is_active = $1, updated_on = $2 WHERE id = $3`, active, time.Now().UTC(), id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

// buildOpportunityWhere renders the filter as a WHERE clause with positional args.
func buildOpportunityWhere(f domain.OpportunityFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !f.IncludeInactive {
		conds = append(conds, "is_active = TRUE")
	}
	if f.OrganizationID != "" {
		add("organization_id = $%d", f.OrganizationID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}
	if f.Cause != "" {
		add("cause = $%d", string(f.Cause))
	}
	if f.Type != "" {
		add("opportunity_type = $%d", string(f.Type))
	}
	if f.StartDate != nil {
		add("event_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("event_date <= $%d", *f.EndDate)
	}
	if f.MinHours != nil {
		add("duration_hours >= $%d", *f.MinHours)
	}
	if f.MaxHours != nil {
		add("duration_hours <= $%d", *f.MaxHours)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *opportunityRepository) List(ctx context.Context, f domain.OpportunityFilter) ([]domain.Opportunity, int64, error) {
	where, args := buildOpportunityWhere(f)

	var total int64
	logger.DatabaseCall("SELECT", "opportunities", "op", "count")
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM opportunities`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := opportunitySortColumns[f.SortBy]
	if !ok {
		column = "event_date"
	}
	direction := "ASC"
	if f.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM opportunities%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		opportunityColumns, where, column, direction, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset())

	opps, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return opps, total, nil
}

func (r *opportunityRepository) ListEndedBetween(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities
	          WHERE is_active = TRUE AND event_date >= $1 AND event_date < $2 ORDER BY event_date`
	return r.query(ctx, query, from, to)
}

func (r *opportunityRepository) query(ctx context.Context, query string, args ...any) ([]domain.Opportunity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
