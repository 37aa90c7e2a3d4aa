package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidTextRepr     = "22P02"
)

// Key (email)=(a@x.com) already exists.
var keyDetailRe = regexp.MustCompile(`^Key \((.+?)\)=\((.*)\) (.+?)\.?$`)

// translate classifies driver errors into application errors. Errors that are
// already classified pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperror.Wrap(apperror.KindInternal, "storage error", err)
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation, codeCheckViolation:
		return apperror.Wrap(apperror.KindValidation, describe(pgErr), err)
	case codeNotNullViolation:
		return apperror.Wrap(apperror.KindValidation, fmt.Sprintf("invalid value for field %s", pgErr.ColumnName), err)
	case codeInvalidTextRepr:
		return apperror.Wrap(apperror.KindValidation, sanitize(pgErr.Message), err)
	}
	return apperror.Wrap(apperror.KindInternal, sanitize(pgErr.Message), err)
}

// describe turns the driver's key detail into "email a@x.com already exists".
func describe(pgErr *pgconn.PgError) string {
	if m := keyDetailRe.FindStringSubmatch(strings.TrimSpace(pgErr.Detail)); m != nil {
		return sanitize(fmt.Sprintf("%s %s %s", m[1], m[2], m[3]))
	}
	if pgErr.Detail != "" {
		return sanitize(pgErr.Detail)
	}
	return sanitize(pgErr.Message)
}

func sanitize(s string) string {
	s = strings.NewReplacer(`"`, "", "`", "", "'", "").Replace(s)
	return strings.TrimSuffix(strings.TrimSpace(s), ".")
}

func isCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
