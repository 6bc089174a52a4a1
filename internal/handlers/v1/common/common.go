// Package common holds the request parsing and error mapping shared by the v1 handlers.
package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
)

// UserHeader identifies the caller. Every ledger operation is scoped to it.
type UserHeader struct {
	UserID string `header:"X-User-ID" required:"true" format:"uuid" doc:"Caller user UUID"`
}

func (h UserHeader) User() (uuid.UUID, error) {
	id, err := uuid.FromString(h.UserID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid X-User-ID", err)
	}
	return id, nil
}

// Error converts a service error into a huma status error.
func Error(err error) error {
	var le *ledgererr.Error
	if !errors.As(err, &le) {
		return huma.NewError(http.StatusInternalServerError, "internal error", err)
	}

	status := http.StatusInternalServerError
	switch le.Kind {
	case ledgererr.KindNotFound:
		status = http.StatusNotFound
	case ledgererr.KindInvalidInput:
		status = http.StatusBadRequest
	case ledgererr.KindStateConflict:
		status = http.StatusConflict
	}

	message := le.Message
	if status == http.StatusInternalServerError {
		message = "storage failure"
	}
	return huma.NewError(status, message, &huma.ErrorDetail{
		Message:  message,
		Location: "code",
		Value:    string(le.Code),
	})
}

func ParseUUID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

// ParseOptionalUUID parses s, treating "" as absent.
func ParseOptionalUUID(field, s string) (uuid.NullUUID, error) {
	if s == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := ParseUUID(field, s)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func ParseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return d, nil
}

// ParseOptionalDecimal parses s, treating "" as absent.
func ParseOptionalDecimal(field, s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := ParseDecimal(field, s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return t, nil
}

func ParseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return t, nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatOptionalDate renders nil as "".
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// FormatNullUUID renders an absent id as "".
func FormatNullUUID(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}
	return id.UUID.String()
}

// FormatNullDecimal renders an absent value as "".
func FormatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
