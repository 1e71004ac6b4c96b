// Package store is a small document-store facade over gorm: records are
// inserted and looked up by id, by equality filters (optionally OR-ed), and
// listed with a sort. It performs no validation; callers validate first.
//
// Every failure other than "not found" comes back as a
// *errors.StoreUnavailableError so callers never see driver details.
package store

import (
	"context"
	"errors"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	svcErr "github.com/oggyb/muzz-dating/internal/errors"
)

// Clause is an equality conjunction: every column must equal its value.
type Clause map[string]any

// Filter is a disjunction of clauses. The zero Filter matches everything.
type Filter struct {
	anyOf []Clause
}

// Where matches records satisfying c.
func Where(c Clause) Filter {
	return Filter{anyOf: []Clause{c}}
}

// Or matches records satisfying at least one of the clauses.
func Or(clauses ...Clause) Filter {
	return Filter{anyOf: clauses}
}

// Sort orders results by Field.
type Sort struct {
	Field string
	Desc  bool
}

// Asc is shorthand for an ascending Sort.
func Asc(field string) Sort { return Sort{Field: field} }

// Store is a collection-agnostic persistence layer over gorm. Every method
// takes a model pointer and derives the table from it.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an open gorm connection.
func New(database *gorm.DB) *Store {
	return &Store{db: database}
}

// Insert persists record; the record's BeforeCreate hook assigns its id.
func (s *Store) Insert(ctx context.Context, record any) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return svcErr.Store("insert "+s.collection(record), err)
	}
	return nil
}

// InsertIfAbsent inserts record unless a row already holds the same values
// in the unique conflict columns. It reports whether a row was written.
//
// This is the store's conditional write: concurrent callers racing on the
// same key see exactly one true.
func (s *Store) InsertIfAbsent(ctx context.Context, record any, conflictColumns ...string) (bool, error) {
	cols := make([]clause.Column, 0, len(conflictColumns))
	for _, c := range conflictColumns {
		cols = append(cols, clause.Column{Name: c})
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).
		Create(record)
	if res.Error != nil {
		return false, svcErr.Store("insert "+s.collection(record), res.Error)
	}
	return res.RowsAffected == 1, nil
}

// FindByID loads the record with the given id into out.
func (s *Store) FindByID(ctx context.Context, out any, id string) (bool, error) {
	return s.take(ctx, out, []clause.Expression{clause.Eq{Column: clause.Column{Name: "id"}, Value: id}}, nil)
}

// FindOne loads the first record matching f into out.
func (s *Store) FindOne(ctx context.Context, out any, f Filter, sort ...Sort) (bool, error) {
	return s.take(ctx, out, f.exprs(), sort)
}

// FindMany loads every record matching f into out (a pointer to a slice).
func (s *Store) FindMany(ctx context.Context, out any, f Filter, sort ...Sort) error {
	q := s.query(ctx, f.exprs(), sort)
	if err := q.Find(out).Error; err != nil {
		return svcErr.Store("find "+s.collection(out), err)
	}
	return nil
}

// CountDistinct counts distinct values of column among records of model matching f.
func (s *Store) CountDistinct(ctx context.Context, model any, column string, f Filter) (int64, error) {
	var n int64
	q := s.query(ctx, f.exprs(), nil).Model(model).Distinct(column)
	if err := q.Count(&n).Error; err != nil {
		return 0, svcErr.Store("count "+s.collection(model), err)
	}
	return n, nil
}

func (s *Store) take(ctx context.Context, out any, where []clause.Expression, sort []Sort) (bool, error) {
	err := s.query(ctx, where, sort).Take(out).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, svcErr.Store("find "+s.collection(out), err)
	}
}

func (s *Store) query(ctx context.Context, where []clause.Expression, sort []Sort) *gorm.DB {
	q := s.db.WithContext(ctx)
	if len(where) > 0 {
		q = q.Clauses(clause.Where{Exprs: where})
	}
	for _, o := range sort {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Field}, Desc: o.Desc})
	}
	return q
}

// collection resolves the table name of a model or slice of models.
func (s *Store) collection(model any) string {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(model); err != nil || stmt.Schema == nil {
		return "records"
	}
	return stmt.Schema.Table
}

func (f Filter) exprs() []clause.Expression {
	if len(f.anyOf) == 0 {
		return nil
	}

	ors := make([]clause.Expression, 0, len(f.anyOf))
	for _, c := range f.anyOf {
		if len(c) == 0 {
			return nil // an empty clause matches everything
		}
		ands := make([]clause.Expression, 0, len(c))
		cols := make([]string, 0, len(c))
		for col := range c {
			cols = append(cols, col)
		}
		slices.Sort(cols)
		for _, col := range cols {
			ands = append(ands, clause.Eq{Column: clause.Column{Name: col}, Value: c[col]})
		}
		ors = append(ors, clause.And(ands...))
	}
	if len(ors) == 1 {
		return ors
	}
	return []clause.Expression{clause.Or(ors...)}
}
