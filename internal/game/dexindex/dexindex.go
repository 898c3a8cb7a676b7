// Package dexindex builds the derived indexes over the static tables.
//
// Every builder takes fully populated tables, makes a single pass, and fails
// on the first broken reference. The result depends only on the set of input
// records, never on their order.
package dexindex

import (
	"fmt"
	"strconv"

	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

func unknownReference(domain, id, reference, message string) error {
	return apperrors.WithMetadata(apperrors.CodeUnknownReference, message, map[string]string{
		"domain":    domain,
		"id":        id,
		"reference": reference,
	})
}

func invalidRecord(domain, id, message string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidRecord, message, map[string]string{
		"domain": domain,
		"id":     id,
	})
}

func itoa[T ~uint8 | ~uint16](v T) string {
	return strconv.Itoa(int(v))
}

func speciesRef[T ~uint16](id T) string {
	return fmt.Sprintf("species:%d", id)
}
