package entity

import (
	"strings"
	"time"

	"codeatlas/internal/domain/errors/domain"

	"github.com/google/uuid"
)

// Project represents a source tree registered for analysis.
type Project struct {
	id             uuid.UUID
	rootPath       string
	name           string
	description    *string
	lastAnalyzedAt *time.Time
	totalFiles     int
	totalSymbols   int
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewProject creates a new Project entity.
func NewProject(rootPath, name string, description *string) (*Project, error) {
	if strings.TrimSpace(rootPath) == "" {
		return nil, domain.ErrInvalidProjectPath
	}
	now := time.Now()
	return &Project{
		id:          uuid.New(),
		rootPath:    rootPath,
		name:        name,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// RestoreProject creates a Project entity from stored data.
func RestoreProject(
	id uuid.UUID,
	rootPath string,
	name string,
	description *string,
	lastAnalyzedAt *time.Time,
	totalFiles int,
	totalSymbols int,
	createdAt time.Time,
	updatedAt time.Time,
	deletedAt *time.Time,
) *Project {
	return &Project{
		id:             id,
		rootPath:       rootPath,
		name:           name,
		description:    description,
		lastAnalyzedAt: lastAnalyzedAt,
		totalFiles:     totalFiles,
		totalSymbols:   totalSymbols,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		deletedAt:      deletedAt,
	}
}

// ID returns the project ID.
func (p *Project) ID() uuid.UUID {
	return p.id
}

// RootPath returns the project root directory.
func (p *Project) RootPath() string {
	return p.rootPath
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.name
}

// Description returns the project description.
func (p *Project) Description() *string {
	return p.description
}

// LastAnalyzedAt returns when the project was last analyzed.
func (p *Project) LastAnalyzedAt() *time.Time {
	return p.lastAnalyzedAt
}

// TotalFiles returns the file count recorded by the last analysis.
func (p *Project) TotalFiles() int {
	return p.totalFiles
}

// TotalSymbols returns the symbol count recorded by the last analysis.
func (p *Project) TotalSymbols() int {
	return p.totalSymbols
}

// CreatedAt returns the creation timestamp.
func (p *Project) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns the last update timestamp.
func (p *Project) UpdatedAt() time.Time {
	return p.updatedAt
}

// DeletedAt returns the deletion timestamp.
func (p *Project) DeletedAt() *time.Time {
	return p.deletedAt
}

// IsDeleted returns true if the project is soft-deleted.
func (p *Project) IsDeleted() bool {
	return p.deletedAt != nil
}

// MarkAnalyzed records the outcome of a completed analysis run.
func (p *Project) MarkAnalyzed(totalFiles, totalSymbols int) {
	now := time.Now()
	p.lastAnalyzedAt = &now
	p.totalFiles = totalFiles
	p.totalSymbols = totalSymbols
	p.updatedAt = now
}

// Delete soft-deletes the project.
func (p *Project) Delete() {
	now := time.Now()
	p.deletedAt = &now
	p.updatedAt = now
}
