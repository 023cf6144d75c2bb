// Package domain provides domain-specific error definitions and utilities.
package domain

import "errors"

// Parser-boundary errors. These indicate the upstream parser contract was
// violated and must fail fast rather than degrade to an empty result.
var (
	ErrNilTree        = errors.New("syntax tree is nil")
	ErrNilTreeRoot    = errors.New("syntax tree root node is nil")
	ErrNotProgramRoot = errors.New("syntax tree root is not a program node")
	ErrTruncatedTree  = errors.New("syntax tree is truncated")
)

// Project-related errors.
var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectAlreadyExists = errors.New("project already exists")
	ErrInvalidProjectPath   = errors.New("project path is invalid")
)

// Job-related errors.
var (
	ErrJobNotFound = errors.New("analysis job not found")
	ErrJobFailed   = errors.New("analysis job failed")
)

// General domain errors.
var (
	ErrInvalidInput = errors.New("invalid input")
)
