package host

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hupe1980/fragsync/model"
)

// Role column names.
const (
	RoleRowID    = "rowId"
	RoleModelID  = "modelId"
	RoleAPIKey   = "apiKey"
	RoleEndpoint = "endpoint"
)

// ErrMissingColumn is returned when a required role column is absent.
var ErrMissingColumn = errors.New("host: required column missing")

// DataView is one refresh of the host's table.
type DataView struct {
	Columns []string
	Rows    [][]string
	// Total is the row count of the unfiltered table. Zero means Rows is the
	// whole table.
	Total int
}

// Filtered reports whether the view carries fewer rows than the table.
func (v DataView) Filtered() bool {
	return v.Total > 0 && len(v.Rows) < v.Total
}

type columns struct {
	rowID, modelID, apiKey, endpoint int
}

func resolveColumns(names []string) (columns, error) {
	c := columns{rowID: -1, modelID: -1, apiKey: -1, endpoint: -1}
	for i, name := range names {
		switch name {
		case RoleRowID:
			c.rowID = i
		case RoleModelID:
			c.modelID = i
		case RoleAPIKey:
			c.apiKey = i
		case RoleEndpoint:
			c.endpoint = i
		}
	}

	switch {
	case c.rowID < 0:
		return c, fmt.Errorf("%w: %s", ErrMissingColumn, RoleRowID)
	case c.modelID < 0:
		return c, fmt.Errorf("%w: %s", ErrMissingColumn, RoleModelID)
	}
	return c, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// TokenBuilder issues the host's selection token for one row.
type TokenBuilder interface {
	Token(index int, row []string) model.RowSelectionID
}

// TokenFunc adapts a function to TokenBuilder.
type TokenFunc func(index int, row []string) model.RowSelectionID

// Token implements TokenBuilder.
func (f TokenFunc) Token(index int, row []string) model.RowSelectionID { return f(index, row) }

// IndexTokens issues tokens from the row position, which is what a host
// identity builder does when rows carry no key of their own.
var IndexTokens TokenBuilder = TokenFunc(func(index int, _ []string) model.RowSelectionID {
	return model.RowSelectionID("row-" + strconv.Itoa(index))
})
