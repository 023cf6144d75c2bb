package repository

import (
	"strings"
	"time"

	"codeatlas/internal/domain/entity"
	"codeatlas/internal/port/outbound"

	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQLProjectRepository implements the ProjectRepository interface.
type PostgreSQLProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPostgreSQLProjectRepository creates a new PostgreSQL project repository.
func NewPostgreSQLProjectRepository(pool *pgxpool.Pool) *PostgreSQLProjectRepository {
	return &PostgreSQLProjectRepository{
		pool: pool,
	}
}

// Save saves a project to the database.
func (r *PostgreSQLProjectRepository) Save(ctx context.Context, project *entity.Project) error {
	if project == nil {
		return ErrInvalidArgument
	}

	query := `
		INSERT INTO codeatlas.projects (
			id, root_path, name, description, last_analyzed_at,
			total_files, total_symbols, created_at, updated_at, deleted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`

	qi := querierFrom(ctx, r.pool)
	_, err := qi.Exec(ctx, query,
		project.ID(),
		project.RootPath(),
		project.Name(),
		project.Description(),
		project.LastAnalyzedAt(),
		project.TotalFiles(),
		project.TotalSymbols(),
		project.CreatedAt(),
		project.UpdatedAt(),
		project.DeletedAt(),
	)
	if err != nil {
		return WrapError(err, "save project")
	}

	return nil
}

// FindByID finds a project by its ID.
func (r *PostgreSQLProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	query := projectSelectColumns + `
		FROM codeatlas.projects
		WHERE id = $1 AND deleted_at IS NULL`

	qi := querierFrom(ctx, r.pool)
	return scanProject(qi.QueryRow(ctx, query, id))
}

// FindByRootPath finds a project by its root path.
func (r *PostgreSQLProjectRepository) FindByRootPath(ctx context.Context, rootPath string) (*entity.Project, error) {
	if rootPath == "" {
		return nil, ErrInvalidArgument
	}

	query := projectSelectColumns + `
		FROM codeatlas.projects
		WHERE root_path = $1 AND deleted_at IS NULL`

	qi := querierFrom(ctx, r.pool)
	return scanProject(qi.QueryRow(ctx, query, rootPath))
}

// FindAll finds projects with filters.
func (r *PostgreSQLProjectRepository) FindAll(
	ctx context.Context,
	filters outbound.ProjectFilters,
) ([]*entity.Project, int, error) {
	if err := validateProjectFilters(filters); err != nil {
		return nil, 0, err
	}

	baseQuery := `FROM codeatlas.projects WHERE deleted_at IS NULL`
	orderBy := buildProjectOrderBy(filters.Sort)
	limit, offset := paginationParams(filters.Limit, filters.Offset)

	qi := querierFrom(ctx, r.pool)
	totalCount, rows, err := executeCountAndDataQuery(
		ctx, qi, baseQuery, projectSelectColumns, "", orderBy, nil, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}

	if rows == nil {
		return []*entity.Project{}, totalCount, nil
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		project, scanErr := scanProject(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		projects = append(projects, project)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, WrapError(rowsErr, "iterate project rows")
	}

	return projects, totalCount, nil
}

// Update updates a project in the database.
func (r *PostgreSQLProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	if project == nil {
		return ErrInvalidArgument
	}

	query := `
		UPDATE codeatlas.projects
		SET root_path = $2, name = $3, description = $4, last_analyzed_at = $5,
			total_files = $6, total_symbols = $7, updated_at = $8, deleted_at = $9
		WHERE id = $1 AND deleted_at IS NULL`

	qi := querierFrom(ctx, r.pool)
	result, err := qi.Exec(ctx, query,
		project.ID(),
		project.RootPath(),
		project.Name(),
		project.Description(),
		project.LastAnalyzedAt(),
		project.TotalFiles(),
		project.TotalSymbols(),
		project.UpdatedAt(),
		project.DeletedAt(),
	)
	if err != nil {
		return WrapError(err, "update project")
	}

	if result.RowsAffected() == 0 {
		return WrapError(ErrNotFound, "update project")
	}

	return nil
}

// Delete soft-deletes a project by setting deleted_at.
func (r *PostgreSQLProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidArgument
	}

	query := `
		UPDATE codeatlas.projects
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL`

	qi := querierFrom(ctx, r.pool)
	result, err := qi.Exec(ctx, query, id)
	if err != nil {
		return WrapError(err, "delete project")
	}

	if result.RowsAffected() == 0 {
		return WrapError(ErrNotFound, "delete project")
	}

	return nil
}

const projectSelectColumns = `SELECT id, root_path, name, description, last_analyzed_at,
	total_files, total_symbols, created_at, updated_at, deleted_at`

// scanProject converts one database row to a Project entity. Returns nil
// without an error when the row does not exist.
func scanProject(row pgx.Row) (*entity.Project, error) {
	var id uuid.UUID
	var rootPath, name string
	var description *string
	var lastAnalyzedAt, deletedAt *time.Time
	var totalFiles, totalSymbols int
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&id, &rootPath, &name, &description, &lastAnalyzedAt,
		&totalFiles, &totalSymbols, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, nil
		}
		return nil, WrapError(err, "scan project row")
	}

	return entity.RestoreProject(
		id, rootPath, name, description, lastAnalyzedAt,
		totalFiles, totalSymbols, createdAt, updatedAt, deletedAt,
	), nil
}

func validateProjectFilters(filters outbound.ProjectFilters) error {
	if filters.Limit <= 0 {
		return ErrInvalidArgument
	}
	if filters.Offset < 0 {
		return ErrInvalidArgument
	}
	if filters.Sort != "" {
		return validateSortParameter(filters.Sort)
	}
	return nil
}

func buildProjectOrderBy(sort string) string {
	if sort == "" {
		return "ORDER BY created_at DESC"
	}

	parts := strings.Split(sort, ":")
	field := parts[0]
	direction := "asc"
	if len(parts) > 1 {
		direction = parts[1]
	}

	switch field {
	case "name":
		if direction == "desc" {
			return "ORDER BY name DESC"
		}
		return "ORDER BY name ASC"
	case "created_at":
		if direction == "desc" {
			return "ORDER BY created_at DESC"
		}
		return "ORDER BY created_at ASC"
	default:
		return "ORDER BY created_at DESC"
	}
}

func paginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// validateSortParameter validates the sort parameter format and fields.
func validateSortParameter(sort string) error {
	parts := strings.Split(sort, ":")
	if len(parts) != 2 {
		parts = []string{sort, "asc"}
	}

	field, direction := parts[0], parts[1]

	validFields := map[string]bool{
		"name":       true,
		"created_at": true,
	}
	if !validFields[field] {
		return ErrInvalidArgument
	}

	validDirections := map[string]bool{
		"asc":  true,
		"desc": true,
	}
	if !validDirections[direction] {
		return ErrInvalidArgument
	}

	return nil
}
