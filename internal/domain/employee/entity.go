package employee

import (
	"strconv"

	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/numeric"
	"github.com/shopspring/decimal"
)

// ID identifies an employee. It is assigned once at creation and never changes.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal employee identifier.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidEmployeeID
	}
	return ID(v), nil
}

type Employee struct {
	ID       ID
	Name     string
	Email    string
	Position string
	Salary   decimal.Decimal
	Settings *Settings
}

// Settings are the recurring payroll inputs remembered from the employee's
// latest disbursement. The numeric fields hold the text that was submitted.
type Settings struct {
	DaysWorked    numeric.Input
	WFOTarget     numeric.Input
	WFODone       numeric.Input
	OvertimeHours numeric.Input
	OvertimeRate  numeric.Input
	Insurance     numeric.Input
	DeductPF      bool
}

// FindIndex returns the position of the employee with the given ID, or -1.
func FindIndex(employees []Employee, id ID) int {
	for i, e := range employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}
