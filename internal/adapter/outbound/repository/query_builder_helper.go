package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// executeCountAndDataQuery runs the count + page pattern used by the list
// methods: a COUNT(*) over baseQuery+whereClause first, then the paginated
// data query. The returned rows are nil when the offset is past the total,
// so callers skip scanning entirely.
func executeCountAndDataQuery(
	ctx context.Context,
	qi Querier,
	baseQuery string,
	selectColumns string,
	whereClause string,
	orderBy string,
	args []interface{},
	limit int,
	offset int,
) (int, pgx.Rows, error) {
	var totalCount int
	countQuery := "SELECT COUNT(*) " + baseQuery + whereClause
	if err := qi.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return 0, nil, WrapError(err, "count query")
	}

	if offset >= totalCount {
		return totalCount, nil, nil
	}

	dataQuery := fmt.Sprintf("%s %s%s %s LIMIT %d OFFSET %d",
		selectColumns, baseQuery, whereClause, orderBy, limit, offset)
	rows, err := qi.Query(ctx, dataQuery, args...)
	if err != nil {
		return 0, nil, WrapError(err, "data query")
	}

	return totalCount, rows, nil
}
