package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassMissingTable
	ErrorClassPermission
	ErrorClassDuplicate
	ErrorClassNotNull
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassTransient:
		return "transient"
	case ErrorClassMissingTable:
		return "missing_table"
	case ErrorClassPermission:
		return "permission"
	case ErrorClassDuplicate:
		return "duplicate"
	case ErrorClassNotNull:
		return "not_null"
	}
	return "permanent"
}

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	if errors.Is(err, ErrTableMissing) {
		return ErrorClassMissingTable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "42P01":
			return ErrorClassMissingTable
		case pqErr.Code == "42501":
			return ErrorClassPermission
		case pqErr.Code == "23505":
			return ErrorClassDuplicate
		case pqErr.Code == "23502":
			return ErrorClassNotNull
		case pqErr.Code == "57014", pqErr.Code == "55P03", pqErr.Code.Class() == "08":
			return ErrorClassTransient
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return ErrorClassTransient
	}

	return ErrorClassPermanent
}

func IsTableMissing(err error) bool {
	return ClassifyError(err) == ErrorClassMissingTable
}

// DescribeWriteError turns a failed write against table into a message an
// operator can act on.
func DescribeWriteError(table string, err error) string {
	switch ClassifyError(err) {
	case ErrorClassMissingTable:
		return fmt.Sprintf("The %s table does not exist. Run `storefront migrate up` against this database and try again.", table)
	case ErrorClassPermission:
		return fmt.Sprintf("The database user is not allowed to write to %s. Check the table grants.", table)
	case ErrorClassNotNull:
		return fmt.Sprintf("A required %s field is missing: %s", table, pqMessage(err))
	case ErrorClassDuplicate:
		return fmt.Sprintf("A %s with this name already exists.", singular(table))
	case ErrorClassTransient:
		return "The database is temporarily unavailable. Please try again."
	}
	return fmt.Sprintf("Failed to save %s. Please try again.", table)
}

func singular(table string) string {
	return strings.ReplaceAll(strings.TrimSuffix(table, "s"), "_", " ")
}

func pqMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Column != "" {
			return pqErr.Column
		}
		return pqErr.Message
	}
	return err.Error()
}

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrFAQNotFound           = errors.New("faq not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrTableMissing          = errors.New("table missing")
)
