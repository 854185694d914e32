package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Identifier errors
	ErrBadIdentifier = errors.New("invalid relay identifier")
	ErrBadGrouping   = errors.New("invalid grouping")

	// Request validation errors
	ErrTierConflict     = errors.New("conflicting priority assignment")
	ErrRuleConflict     = errors.New("grouping both included and excluded")
	ErrDuplicateInclude = errors.New("grouping listed twice in inclusion rules")
	ErrDuplicateRename  = errors.New("identifier has two rename targets")
	ErrBadRename        = errors.New("invalid rename")

	// Pipeline errors
	ErrNameCollision     = errors.New("output name collision")
	ErrDestinationExists = errors.New("destination directory already exists")
)
