package service

import (
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/types"
)

func errInvalidPeriod(period types.PeriodType) error {
	return ierr.NewError("invalid period").
		WithHintf("Unknown period token: %s", period).
		Mark(ierr.ErrValidation)
}
