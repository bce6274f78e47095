package leave

import (
	"strings"
	"time"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/core/common/validation"
)

const maxCommentLength = 1000

type CreateRequestDTO struct {
	Type    string  `json:"type"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Comment *string `json:"comment,omitempty"`
}

// NewRequestInput is a CreateRequestDTO after parsing.
type NewRequestInput struct {
	Type    Type
	From    time.Time
	To      time.Time
	Comment *string
}

func (d CreateRequestDTO) Parse() (NewRequestInput, error) {
	v := validation.NewValidator()
	v.Field("type", d.Type).Required().Custom(func(value interface{}) *internal.AppError {
		if _, err := ParseType(value.(string)); err != nil {
			return internal.NewValidationFieldError("type", "type must be one of annual, sick, unpaid, study", internal.ErrCodeInvalidLeaveType)
		}
		return nil
	})
	v.Field("from", d.From).Required()
	v.Field("to", d.To).Required()
	v.Field("comment", d.Comment).MaxLength(maxCommentLength)
	if err := v.Validate(); err != nil {
		return NewRequestInput{}, err
	}

	from, err := validation.ParseDate("from", d.From)
	if err != nil {
		return NewRequestInput{}, err
	}
	to, err := validation.ParseDate("to", d.To)
	if err != nil {
		return NewRequestInput{}, err
	}
	if !from.Before(to) {
		return NewRequestInput{}, internal.ErrInvalidPeriod
	}

	t, _ := ParseType(d.Type)
	var comment *string
	if d.Comment != nil {
		if c := strings.TrimSpace(*d.Comment); c != "" {
			comment = &c
		}
	}
	return NewRequestInput{Type: t, From: from, To: to, Comment: comment}, nil
}

type MidDecisionDTO struct {
	Approve *bool `json:"approve"`
	Version int64 `json:"version"`
}

type TopDecisionDTO struct {
	Approve   *bool   `json:"approve"`
	FinalFrom *string `json:"finalFrom,omitempty"`
	FinalTo   *string `json:"finalTo,omitempty"`
	Version   int64   `json:"version"`
}

// Decision is a parsed decision body for either stage.
type Decision struct {
	Approve   bool
	Version   int64
	FinalFrom *time.Time
	FinalTo   *time.Time
}

func validateDecision(approve *bool, version int64) error {
	v := validation.NewValidator()
	v.Field("approve", approve).Custom(func(value interface{}) *internal.AppError {
		if value.(*bool) == nil {
			return internal.NewValidationFieldError("approve", "approve is required", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("version", version).Custom(func(value interface{}) *internal.AppError {
		if value.(int64) < 1 {
			return internal.NewValidationFieldError("version", "version must be the positive version you last read", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d MidDecisionDTO) Parse() (Decision, error) {
	if err := validateDecision(d.Approve, d.Version); err != nil {
		return Decision{}, err
	}
	return Decision{Approve: *d.Approve, Version: d.Version}, nil
}

func (d TopDecisionDTO) Parse() (Decision, error) {
	if err := validateDecision(d.Approve, d.Version); err != nil {
		return Decision{}, err
	}
	out := Decision{Approve: *d.Approve, Version: d.Version}
	if d.FinalFrom != nil && strings.TrimSpace(*d.FinalFrom) != "" {
		t, err := validation.ParseDate("finalFrom", *d.FinalFrom)
		if err != nil {
			return Decision{}, err
		}
		out.FinalFrom = &t
	}
	if d.FinalTo != nil && strings.TrimSpace(*d.FinalTo) != "" {
		t, err := validation.ParseDate("finalTo", *d.FinalTo)
		if err != nil {
			return Decision{}, err
		}
		out.FinalTo = &t
	}
	return out, nil
}

// Override returns the replacement period when the decision carries one.
// Supplying only one bound, or an empty or inverted period, is InvalidPeriod.
func (d Decision) Override() (from, to time.Time, ok bool, err error) {
	switch {
	case d.FinalFrom == nil && d.FinalTo == nil:
		return time.Time{}, time.Time{}, false, nil
	case d.FinalFrom == nil || d.FinalTo == nil:
		return time.Time{}, time.Time{}, false, internal.ErrInvalidPeriod.WithMessage("Both finalFrom and finalTo must be supplied together")
	case !d.FinalFrom.Before(*d.FinalTo):
		return time.Time{}, time.Time{}, false, internal.ErrInvalidPeriod
	}
	return *d.FinalFrom, *d.FinalTo, true, nil
}

type RequestsResponse struct {
	Requests []*Request `json:"requests"`
}
