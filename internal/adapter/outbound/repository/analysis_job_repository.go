package repository

import (
	"context"
	"fmt"
	"time"

	"codeatlas/internal/domain/entity"
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQLAnalysisJobRepository implements the AnalysisJobRepository interface.
type PostgreSQLAnalysisJobRepository struct {
	pool *pgxpool.Pool
}

// NewPostgreSQLAnalysisJobRepository creates a new PostgreSQL analysis job repository.
func NewPostgreSQLAnalysisJobRepository(pool *pgxpool.Pool) *PostgreSQLAnalysisJobRepository {
	return &PostgreSQLAnalysisJobRepository{
		pool: pool,
	}
}

// Save saves an analysis job to the database.
func (r *PostgreSQLAnalysisJobRepository) Save(ctx context.Context, job *entity.AnalysisJob) error {
	if job == nil {
		return ErrInvalidArgument
	}

	query := `
		INSERT INTO codeatlas.analysis_jobs (
			id, project_id, status, started_at, completed_at, error_message,
			files_processed, files_failed, symbols_found, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	qi := querierFrom(ctx, r.pool)
	_, err := qi.Exec(ctx, query,
		job.ID(),
		job.ProjectID(),
		job.Status().String(),
		job.StartedAt(),
		job.CompletedAt(),
		job.ErrorMessage(),
		job.FilesProcessed(),
		job.FilesFailed(),
		job.SymbolsFound(),
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return WrapError(err, "save analysis job")
	}

	return nil
}

// FindByID finds an analysis job by its ID.
func (r *PostgreSQLAnalysisJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	query := jobSelectColumns + `
		FROM codeatlas.analysis_jobs
		WHERE id = $1`

	qi := querierFrom(ctx, r.pool)
	return scanAnalysisJob(qi.QueryRow(ctx, query, id))
}

// FindByProjectID finds analysis jobs for a project, newest first.
func (r *PostgreSQLAnalysisJobRepository) FindByProjectID(
	ctx context.Context,
	projectID uuid.UUID,
	filters outbound.JobFilters,
) ([]*entity.AnalysisJob, int, error) {
	if projectID == uuid.Nil {
		return nil, 0, ErrInvalidArgument
	}
	if filters.Limit <= 0 || filters.Offset < 0 {
		return nil, 0, ErrInvalidArgument
	}

	baseQuery := `FROM codeatlas.analysis_jobs WHERE project_id = $1`
	orderBy := "ORDER BY created_at DESC"
	args := []interface{}{projectID}

	qi := querierFrom(ctx, r.pool)
	totalCount, rows, err := executeCountAndDataQuery(
		ctx, qi, baseQuery, jobSelectColumns, "", orderBy, args, filters.Limit, filters.Offset,
	)
	if err != nil {
		return nil, 0, err
	}

	if rows == nil {
		return []*entity.AnalysisJob{}, totalCount, nil
	}
	defer rows.Close()

	var jobs []*entity.AnalysisJob
	for rows.Next() {
		job, scanErr := scanAnalysisJob(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		jobs = append(jobs, job)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, WrapError(rowsErr, "iterate analysis job rows")
	}

	return jobs, totalCount, nil
}

// Update updates an analysis job in the database.
func (r *PostgreSQLAnalysisJobRepository) Update(ctx context.Context, job *entity.AnalysisJob) error {
	if job == nil {
		return ErrInvalidArgument
	}

	query := `
		UPDATE codeatlas.analysis_jobs
		SET status = $2, started_at = $3, completed_at = $4, error_message = $5,
			files_processed = $6, files_failed = $7, symbols_found = $8, updated_at = $9
		WHERE id = $1`

	qi := querierFrom(ctx, r.pool)
	result, err := qi.Exec(ctx, query,
		job.ID(),
		job.Status().String(),
		job.StartedAt(),
		job.CompletedAt(),
		job.ErrorMessage(),
		job.FilesProcessed(),
		job.FilesFailed(),
		job.SymbolsFound(),
		job.UpdatedAt(),
	)
	if err != nil {
		return WrapError(err, "update analysis job")
	}

	if result.RowsAffected() == 0 {
		return WrapError(ErrNotFound, "update analysis job")
	}

	return nil
}

const jobSelectColumns = `SELECT id, project_id, status, started_at, completed_at, error_message,
	files_processed, files_failed, symbols_found, created_at, updated_at`

// scanAnalysisJob converts one database row to an AnalysisJob entity. Returns
// nil without an error when the row does not exist.
func scanAnalysisJob(row pgx.Row) (*entity.AnalysisJob, error) {
	var id, projectID uuid.UUID
	var statusStr string
	var startedAt, completedAt *time.Time
	var errorMessage *string
	var filesProcessed, filesFailed, symbolsFound int
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&id, &projectID, &statusStr, &startedAt, &completedAt, &errorMessage,
		&filesProcessed, &filesFailed, &symbolsFound, &createdAt, &updatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, nil
		}
		return nil, WrapError(err, "scan analysis job row")
	}

	status, err := valueobject.NewJobStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("invalid job status: %w", err)
	}

	return entity.RestoreAnalysisJob(
		id, projectID, status, startedAt, completedAt, errorMessage,
		filesProcessed, filesFailed, symbolsFound, createdAt, updatedAt,
	), nil
}
