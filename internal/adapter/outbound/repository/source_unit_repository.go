package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQLSourceUnitRepository implements the SourceUnitRepository interface.
// Each analyzed file is stored as one row; the descriptor collections are kept
// as a JSONB document since the protocol layer only ever reads them back whole.
type PostgreSQLSourceUnitRepository struct {
	pool *pgxpool.Pool
}

// NewPostgreSQLSourceUnitRepository creates a new PostgreSQL source unit repository.
func NewPostgreSQLSourceUnitRepository(pool *pgxpool.Pool) *PostgreSQLSourceUnitRepository {
	return &PostgreSQLSourceUnitRepository{
		pool: pool,
	}
}

// sourceUnitPayload is the JSONB document stored per file.
type sourceUnitPayload struct {
	Variables  []outbound.VariableDescriptor  `json:"variables"`
	Functions  []outbound.FunctionDescriptor  `json:"functions"`
	Components []outbound.ComponentDescriptor `json:"components"`
	Imports    []outbound.ImportRecord        `json:"imports,omitempty"`
}

// SaveFileAnalyses upserts the analysis results for a batch of files inside
// one transaction, so a failed run never leaves a partial batch behind. A
// file re-analyzed in a later run replaces its previous row.
func (r *PostgreSQLSourceUnitRepository) SaveFileAnalyses(
	ctx context.Context,
	projectID uuid.UUID,
	files []outbound.FileAnalysis,
) error {
	if projectID == uuid.Nil {
		return ErrInvalidArgument
	}
	if len(files) == 0 {
		return nil
	}

	return WithTransaction(ctx, r.pool, func(ctx context.Context) error {
		return r.saveFileAnalyses(ctx, projectID, files)
	})
}

func (r *PostgreSQLSourceUnitRepository) saveFileAnalyses(
	ctx context.Context,
	projectID uuid.UUID,
	files []outbound.FileAnalysis,
) error {
	query := `
		INSERT INTO codeatlas.source_units (
			id, project_id, file_path, language, framework,
			size_bytes, line_count, encoding, symbol_count, payload, analyzed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (project_id, file_path) DO UPDATE SET
			language = EXCLUDED.language,
			framework = EXCLUDED.framework,
			size_bytes = EXCLUDED.size_bytes,
			line_count = EXCLUDED.line_count,
			encoding = EXCLUDED.encoding,
			symbol_count = EXCLUDED.symbol_count,
			payload = EXCLUDED.payload,
			analyzed_at = EXCLUDED.analyzed_at`

	qi := querierFrom(ctx, r.pool)
	now := time.Now()

	for i := range files {
		file := &files[i]

		payload, err := json.Marshal(sourceUnitPayload{
			Variables:  file.Variables,
			Functions:  file.Functions,
			Components: file.Components,
			Imports:    file.Imports,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal analysis payload for %s: %w", file.FilePath, err)
		}

		_, err = qi.Exec(ctx, query,
			uuid.New(),
			projectID,
			file.FilePath,
			file.Language.String(),
			file.Framework.String(),
			file.SizeBytes,
			file.LineCount,
			file.Encoding,
			file.SymbolCount(),
			payload,
			now,
		)
		if err != nil {
			return WrapError(err, "save source unit")
		}
	}

	return nil
}

// FindByProjectID returns all stored file analyses for a project, sorted by
// file path.
func (r *PostgreSQLSourceUnitRepository) FindByProjectID(
	ctx context.Context,
	projectID uuid.UUID,
) ([]outbound.FileAnalysis, error) {
	if projectID == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	query := `
		SELECT file_path, language, framework, size_bytes, line_count, encoding, payload
		FROM codeatlas.source_units
		WHERE project_id = $1
		ORDER BY file_path ASC`

	qi := querierFrom(ctx, r.pool)
	rows, err := qi.Query(ctx, query, projectID)
	if err != nil {
		return nil, WrapError(err, "find source units by project")
	}
	defer rows.Close()

	var files []outbound.FileAnalysis
	for rows.Next() {
		var filePath, languageStr, frameworkStr, encoding string
		var sizeBytes int64
		var lineCount int
		var payloadBytes []byte

		if scanErr := rows.Scan(
			&filePath, &languageStr, &frameworkStr, &sizeBytes, &lineCount, &encoding, &payloadBytes,
		); scanErr != nil {
			return nil, WrapError(scanErr, "scan source unit row")
		}

		var payload sourceUnitPayload
		if unmarshalErr := json.Unmarshal(payloadBytes, &payload); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis payload for %s: %w", filePath, unmarshalErr)
		}

		files = append(files, outbound.FileAnalysis{
			FilePath:   filePath,
			Language:   valueobject.Language(languageStr),
			Framework:  valueobject.Framework(frameworkStr),
			SizeBytes:  sizeBytes,
			LineCount:  lineCount,
			Encoding:   encoding,
			Variables:  payload.Variables,
			Functions:  payload.Functions,
			Components: payload.Components,
			Imports:    payload.Imports,
		})
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, WrapError(rowsErr, "iterate source unit rows")
	}

	return files, nil
}

// DeleteByProjectID removes all stored file analyses for a project.
func (r *PostgreSQLSourceUnitRepository) DeleteByProjectID(ctx context.Context, projectID uuid.UUID) error {
	if projectID == uuid.Nil {
		return ErrInvalidArgument
	}

	query := `DELETE FROM codeatlas.source_units WHERE project_id = $1`

	qi := querierFrom(ctx, r.pool)
	if _, err := qi.Exec(ctx, query, projectID); err != nil {
		return WrapError(err, "delete source units")
	}

	return nil
}
