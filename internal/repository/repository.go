// Package repository declares the persistence contracts used by the services.
// Implementations return sql.ErrNoRows when a single addressed row does not exist.
package repository

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
