// Package service holds the application layer of the shelf: importing and
// exporting library items, reconciling their tracks with local files, and
// keeping the search index in step with the store.
package service

import (
	"fmt"
	"log/slog"
	"slices"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/listenupapp/listenup-shelf/internal/store"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// orDiscard returns logger, or a logger that drops everything when nil.
func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// storeError translates store failures into coded domain errors. Anything
// that is not a classified store error is wrapped as is.
func storeError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	var se *store.Error
	if domainerrors.As(err, &se) {
		return domainerrors.Wrap(err, se.Code, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// sortByTitle orders values by their title using English collation, so
// accents and case do not split the listing. Ties keep id order.
func sortByTitle[T any](values []T, title func(T) string, id func(T) string) {
	c := collate.New(language.English, collate.IgnoreCase, collate.Loose)
	slices.SortStableFunc(values, func(a, b T) int {
		if r := c.CompareString(title(a), title(b)); r != 0 {
			return r
		}
		return c.CompareString(id(a), id(b))
	})
}
