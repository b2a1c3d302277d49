// Package db provides the request builders of the database API: a
// QueryBuilder for queries on a model and an ObjectManager for single
// objects. Results are returned as raw JSON; use Decode to get typed values.
package db
