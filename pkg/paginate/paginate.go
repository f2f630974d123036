// Package paginate parses page/perpage/ordering query values and applies
// them to gorm queries.
package paginate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPerPage = 3
	MaxPerPage     = 100
)

var ErrInvalid = errors.New("invalid pagination parameter")

type SortField struct {
	Column string
	Desc   bool
}

type Params struct {
	Page    int
	PerPage int
	Sort    []SortField
}

// Parse reads the raw query values. allowed maps public field names to
// column names; a field missing from it is rejected.
func Parse(page, perPage, ordering string, allowed map[string]string) (Params, error) {
	p := Params{Page: 1, PerPage: DefaultPerPage}

	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Params{}, fmt.Errorf("%w: page must be a positive integer", ErrInvalid)
		}
		p.Page = n
	}
	if s := strings.TrimSpace(perPage); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Params{}, fmt.Errorf("%w: perpage must be a positive integer", ErrInvalid)
		}
		if n > MaxPerPage {
			n = MaxPerPage
		}
		p.PerPage = n
	}

	for _, raw := range strings.Split(ordering, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		col, ok := allowed[name]
		if !ok {
			return Params{}, fmt.Errorf("%w: cannot order by %q", ErrInvalid, name)
		}
		p.Sort = append(p.Sort, SortField{Column: col, Desc: desc})
	}
	return p, nil
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Scope orders by the requested fields, then by id so pages are stable,
// and cuts out the requested page.
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	hasID := false
	for _, s := range p.Sort {
		if s.Column == "id" {
			hasID = true
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	if !hasID {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return db.Limit(p.PerPage).Offset(p.Offset())
}
