package domain

import "errors"

var (
	ErrSessionNotFound  = errors.New("editing session not found")
	ErrProposalNotFound = errors.New("saved proposal not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrExportInProgress = errors.New("export already in progress")
	ErrInvalidLogo      = errors.New("invalid logo image")
	ErrNonFiniteAmount  = errors.New("amounts must be finite numbers")
)
