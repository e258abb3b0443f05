package services

import (
	"errors"

	"github.com/clauseguard/clauseguard/pkg/classification"
	"github.com/clauseguard/clauseguard/pkg/templates"
)

func classifyErrorReason(err error) string {
	switch {
	case errors.Is(err, templates.ErrMissingTemplate):
		return "missing_template"
	case errors.Is(err, classification.ErrEmptyClause):
		return "empty_clause"
	default:
		return "internal"
	}
}
