package layouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ErrLayoutMalformed reports a layout submission that could not be used. The
// owner's grid is left empty and the save itself still succeeds.
var ErrLayoutMalformed = errors.New("layouts: malformed layout")

const defaultColWidth = 3

type rowPayload struct {
	RowIndex *int            `json:"rowIndex"`
	Columns  []columnPayload `json:"columns"`
}

type columnPayload struct {
	ColIndex         *int    `json:"colIndex"`
	ColWidth         *int    `json:"colWidth"`
	ModuleInstanceID *string `json:"moduleInstanceId"`
}

type cellInput struct {
	RowIndex   int
	ColIndex   int
	ColWidth   int
	InstanceID string
}

func (c cellInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.RowIndex, validation.Min(0)),
		validation.Field(&c.ColIndex, validation.Min(0)),
		validation.Field(&c.ColWidth, validation.Required, validation.Min(1), validation.Max(12)),
		validation.Field(&c.InstanceID, validation.By(isUUID)),
	)
}

func isUUID(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

// ParseLayout decodes the editor payload
// [{rowIndex, columns: [{colIndex, colWidth, moduleInstanceId}]}] into cells.
// A blank payload is an empty layout.
func ParseLayout(raw string) ([]*Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return []*Cell{}, nil
	}
	var rows []rowPayload
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayoutMalformed, err)
	}

	cells := []*Cell{}
	for position, row := range rows {
		rowIndex := position
		if row.RowIndex != nil {
			rowIndex = *row.RowIndex
		}
		for column, col := range row.Columns {
			input := cellInput{RowIndex: rowIndex, ColWidth: defaultColWidth}
			if col.ColIndex != nil {
				input.ColIndex = *col.ColIndex
			}
			if col.ColWidth != nil {
				input.ColWidth = *col.ColWidth
			}
			if col.ModuleInstanceID != nil {
				input.InstanceID = strings.TrimSpace(*col.ModuleInstanceID)
			}
			if err := input.Validate(); err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrLayoutMalformed, position, column, err)
			}

			cell := &Cell{
				RowIndex: input.RowIndex,
				ColIndex: input.ColIndex,
				ColWidth: input.ColWidth,
			}
			if input.InstanceID != "" {
				id := uuid.MustParse(input.InstanceID)
				cell.ModuleInstanceID = &id
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}
