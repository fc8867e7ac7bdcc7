package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerFilter selects live sales or purchases. Every query of a listing
// (page, count, aggregate) builds its WHERE clause from the same filter.
type LedgerFilter struct {
	Start     time.Time
	End       time.Time
	ProductID *uuid.UUID
	// Counterparty is a case-insensitive substring of the customer or supplier name.
	Counterparty string
	// DueOnly keeps sales with an unpaid portion. Ignored for purchases.
	DueOnly bool
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}

func (f LedgerFilter) where(counterpartyColumn string, withDue bool) (string, pgx.NamedArgs) {
	clauses := []string{
		"NOT deleted",
		"date >= @start",
		"date <= @end",
	}
	args := pgx.NamedArgs{
		"start": f.Start,
		"end":   f.End,
	}

	if f.ProductID != nil {
		clauses = append(clauses, "product_id = @product_id")
		args["product_id"] = *f.ProductID
	}

	if name := escapeLike(f.Counterparty); name != "" {
		clauses = append(clauses, counterpartyColumn+" ILIKE '%' || @counterparty || '%'")
		args["counterparty"] = name
	}

	if withDue && f.DueOnly {
		clauses = append(clauses, "due > 0")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// Page bounds for listing queries.
type PageParams struct {
	Limit  int32
	Offset int32
}
