// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// blobIDRegex matches the url-safe base64 alphabet used by blob ids.
var blobIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Address validates a 0x-prefixed 20-byte hex wallet address. Any letter case is
// accepted; use cases normalize to the checksummed form.
var Address = validation.NewStringRuleWithError(
	walletDomain.IsAddress,
	validation.NewError("validation_address", "must be a 0x-prefixed 40 hex digit address"),
)

// BlobID validates a blob id.
var BlobID = validation.NewStringRuleWithError(
	blobIDRegex.MatchString,
	validation.NewError("validation_blob_id", "must contain only letters, digits, '-' and '_'"),
)

// NotBlank rejects strings made only of whitespace. Required already rejects "".
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
