package psqlbuilder

import "github.com/Masterminds/squirrel"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a PostgreSQL SELECT with $n placeholders.
func Select(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...)
}

// Insert starts a PostgreSQL INSERT with $n placeholders.
func Insert(table string) squirrel.InsertBuilder {
	return psql.Insert(table)
}

// Update starts a PostgreSQL UPDATE with $n placeholders.
func Update(table string) squirrel.UpdateBuilder {
	return psql.Update(table)
}

// Delete starts a PostgreSQL DELETE with $n placeholders.
func Delete(table string) squirrel.DeleteBuilder {
	return psql.Delete(table)
}
