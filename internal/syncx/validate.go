package syncx

import (
	"fmt"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a record against its table schema: required fields,
// enumerated values and id format. A failing row is skipped by the caller;
// it never aborts the rest of the batch.
func Validate(rec Record) error {
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("%s row %q: %v: %w", rec.Table(), rec.SyncMeta().ID, err, common.ErrorValidation)
	}
	return nil
}

// ValidateStruct applies validator tags to an arbitrary request body.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%v: %w", err, common.ErrorValidation)
	}
	return nil
}
