package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"title":      true,
	"start_date": true,
	"team_name":  true,
}

// applySort appends an ORDER BY clause, whitelisting the column name so
// caller-supplied sort keys cannot inject SQL.
func applySort(query *gorm.DB, sortBy, sortOrder, fallback string) *gorm.DB {
	column := fallback
	if sortableColumns[sortBy] {
		column = sortBy
	}
	order := "DESC"
	if sortOrder == "asc" {
		order = "ASC"
	}
	return query.Order(fmt.Sprintf("%s %s", column, order))
}
