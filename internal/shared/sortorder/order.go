// Package sortorder names the two list orderings the API accepts.
package sortorder

import (
	"errors"
	"strings"
)

// Order is the direction of a date-ordered listing.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ErrInvalidOrder is returned for anything other than "asc" or "desc".
var ErrInvalidOrder = errors.New(`order must be "asc" or "desc"`)

// Parse reads an order query value. Empty means def.
func Parse(s string, def Order) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", ErrInvalidOrder
	}
}

// SQL returns the ORDER BY direction keyword.
func (o Order) SQL() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}
