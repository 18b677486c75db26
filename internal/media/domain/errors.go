package domain

import (
	"github.com/custodia-labs/custodia/internal/errors"
)

// Media error definitions.
var (
	// ErrMediaNotFound indicates the owner has no record for the blob id.
	ErrMediaNotFound = errors.Wrap(errors.ErrNotFound, "media not found")

	// ErrEmptyContent indicates an upload without content.
	ErrEmptyContent = errors.Wrap(errors.ErrInvalidInput, "media content is empty")
)
