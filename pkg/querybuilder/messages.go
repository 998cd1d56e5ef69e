package querybuilder

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

// Translation keys for query diagnostics.
const (
	msgUnexpectedParameter = "query_unexpected_parameter"
	msgMalformedOperator   = "query_malformed_operator"
	msgEmptyLike           = "query_empty_like"
	msgMixedOperator       = "query_mixed_operator"
	msgDuplicateOperator   = "query_duplicate_operator"
	msgBetweenOperands     = "query_between_operands"
	msgBetweenReversed     = "query_between_reversed"
	msgNotNumber           = "query_not_number"
	msgNotInteger          = "query_not_integer"
	msgNotTime             = "query_not_time"
	msgLikeNotText         = "query_like_not_text"
	msgRangeMin            = "query_range_min"
	msgRangeMax            = "query_range_max"
	msgRangeStep           = "query_range_step"
	msgUnknownSortField    = "query_unknown_sort_field"
	msgSortFormat          = "query_sort_format"
	msgSortDirection       = "query_sort_direction"
	msgPaginationInteger   = "query_pagination_integer"
	msgPaginationSingle    = "query_pagination_single"
	msgPaginationTooLarge  = "query_pagination_too_large"
)

var queryMessages = map[string]string{
	msgUnexpectedParameter: "{0} is not an allowed query parameter",
	msgMalformedOperator:   "{0} has a malformed filter operator in '{1}'",
	msgEmptyLike:           "{0} requires a non-empty [like] pattern",
	msgMixedOperator:       "{0} cannot mix literal values and filter operators",
	msgDuplicateOperator:   "{0} repeats the [{1}] operator",
	msgBetweenOperands:     "{0} requires exactly two operands for [between]",
	msgBetweenReversed:     "{0} [between] lower bound {1} is greater than upper bound {2}",
	msgNotNumber:           "{0} must be a number, got '{1}'",
	msgNotInteger:          "{0} must be a whole number, got '{1}'",
	msgNotTime:             "{0} must be a date or RFC 3339 timestamp, got '{1}'",
	msgLikeNotText:         "{0} does not support [like] on {1} values",
	msgRangeMin:            "{0} must be greater than or equal to {1}",
	msgRangeMax:            "{0} must be less than or equal to {1}",
	msgRangeStep:           "{0} must be a multiple of {1}",
	msgUnknownSortField:    "{0} is not a sortable field",
	msgSortFormat:          "sort entry '{0}' must have the form field,DIRECTION",
	msgSortDirection:       "sort direction '{0}' must be ASC or DESC",
	msgPaginationInteger:   "{0} must be an integer",
	msgPaginationSingle:    "{0} must be given only once",
	msgPaginationTooLarge:  "{0} is too large",
}

var (
	errUnexpected     = apperrors.ErrUnexpectedQueryParameter
	errMalformed      = apperrors.ErrMalformedFilterOperator
	errRangeViolation = apperrors.ErrRangeViolation
	errUnknownSort    = apperrors.ErrUnknownSortField
	errSortFormat     = apperrors.ErrInvalidSortFormat
	errSortDirection  = apperrors.ErrInvalidSortDirection
	errPagination     = apperrors.ErrInvalidPagination
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
	for key, text := range queryMessages {
		if err := trans.Add(key, text, true); err != nil {
			panic(err)
		}
	}
}

func message(key string, params ...string) string {
	text, err := trans.T(key, params...)
	if err != nil {
		return key
	}
	return text
}

// issue is a single diagnostic. It renders either as a wrapped DomainError for
// the builders or as a ValidationError for the validator.
type issue struct {
	kind   *apperrors.DomainError
	field  string
	key    string
	params []string
}

func newIssue(kind *apperrors.DomainError, field, key string, params ...string) *issue {
	return &issue{kind: kind, field: field, key: key, params: params}
}

func (i *issue) message() string {
	return message(i.key, i.params...)
}

func (i *issue) err() error {
	return apperrors.WrapError(i.kind, errors.New(i.message()))
}

func (i *issue) validationError() ValidationError {
	return ValidationError{Field: i.field, Code: i.kind.Code, Message: i.message()}
}
