package keyvalue

import (
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/numeric"
	"github.com/shopspring/decimal"
)

// number is written as a bare JSON number. Reads also take strings and
// null, coercing anything unparsable to zero.
type number struct {
	decimal.Decimal
}

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	var in numeric.Input
	if err := in.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Decimal = in.Decimal()
	return nil
}

// employeeID accepts both 1234 and "1234" so blobs written by older clients
// compare equal to the strict numeric ID used everywhere else.
type employeeID employee.ID

func (id employeeID) MarshalJSON() ([]byte, error) {
	return []byte(employee.ID(id).String()), nil
}

func (id *employeeID) UnmarshalJSON(data []byte) error {
	var in numeric.Input
	if err := in.UnmarshalJSON(data); err != nil {
		return err
	}
	d, err := in.Parse()
	if err != nil || in == "" || !d.IsInteger() {
		return fmt.Errorf("%w: %s", employee.ErrInvalidEmployeeID, data)
	}
	*id = employeeID(d.IntPart())
	return nil
}

type employeeDoc struct {
	ID       employeeID   `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Position string       `json:"position"`
	Salary   number       `json:"salary"`
	Settings *settingsDoc `json:"settings,omitempty"`
}

// settingsDoc keeps the numeric inputs as the text that was submitted.
type settingsDoc struct {
	DaysWorked numeric.Input `json:"daysWorked"`
	WFHAllowed numeric.Input `json:"wfhAllowed"`
	WFHDone    numeric.Input `json:"wfhDone"`
	OTHours    numeric.Input `json:"otHours"`
	OTRate     numeric.Input `json:"otRate"`
	Insurance  numeric.Input `json:"insurance"`
	DeductPF   *bool         `json:"deductPF"` // missing or null = on
}

type recordDoc struct {
	Ref     string     `json:"ref,omitempty"`
	EmpID   employeeID `json:"empId"`
	EmpName string     `json:"empName"`
	NetPay  number     `json:"netPay"`
	Date    string     `json:"date"`
	Month   string     `json:"month"`
	Details detailsDoc `json:"details"`
}

type detailsDoc struct {
	Base       number `json:"base"`
	Attendance number `json:"attendance"`
	OT         number `json:"ot"`
	Penalty    number `json:"penalty"`
	PF         number `json:"pf"`
	Insurance  number `json:"insurance"`
}

func toEmployeeDoc(e employee.Employee) employeeDoc {
	doc := employeeDoc{
		ID:       employeeID(e.ID),
		Name:     e.Name,
		Email:    e.Email,
		Position: e.Position,
		Salary:   number{e.Salary},
	}
	if s := e.Settings; s != nil {
		doc.Settings = &settingsDoc{
			DaysWorked: s.DaysWorked,
			WFHAllowed: s.WFOTarget,
			WFHDone:    s.WFODone,
			OTHours:    s.OvertimeHours,
			OTRate:     s.OvertimeRate,
			Insurance:  s.Insurance,
			DeductPF:   &s.DeductPF,
		}
	}
	return doc
}

func (d employeeDoc) entity() employee.Employee {
	e := employee.Employee{
		ID:       employee.ID(d.ID),
		Name:     d.Name,
		Email:    d.Email,
		Position: d.Position,
		Salary:   d.Salary.Decimal,
	}
	if s := d.Settings; s != nil {
		e.Settings = &employee.Settings{
			DaysWorked:    s.DaysWorked,
			WFOTarget:     s.WFHAllowed,
			WFODone:       s.WFHDone,
			OvertimeHours: s.OTHours,
			OvertimeRate:  s.OTRate,
			Insurance:     s.Insurance,
			DeductPF:      s.DeductPF == nil || *s.DeductPF,
		}
	}
	return e
}

func toRecordDoc(r payroll.Record) recordDoc {
	return recordDoc{
		Ref:     r.Ref,
		EmpID:   employeeID(r.EmployeeID),
		EmpName: r.EmployeeName,
		NetPay:  number{decimal.NewFromInt(r.NetPay)},
		Date:    r.Date,
		Month:   r.Month,
		Details: detailsDoc{
			Base:       number{r.Details.Base},
			Attendance: number{r.Details.Attendance},
			OT:         number{r.Details.Overtime},
			Penalty:    number{r.Details.Penalty},
			PF:         number{r.Details.PF},
			Insurance:  number{r.Details.Insurance},
		},
	}
}

func (d recordDoc) entity() payroll.Record {
	return payroll.Record{
		Ref:          d.Ref,
		EmployeeID:   employee.ID(d.EmpID),
		EmployeeName: d.EmpName,
		NetPay:       d.NetPay.Round(0).IntPart(),
		Date:         d.Date,
		Month:        d.Month,
		Details: payroll.Details{
			Base:       d.Details.Base.Decimal,
			Attendance: d.Details.Attendance.Decimal,
			Overtime:   d.Details.OT.Decimal,
			Penalty:    d.Details.Penalty.Decimal,
			PF:         d.Details.PF.Decimal,
			Insurance:  d.Details.Insurance.Decimal,
		},
	}
}

func decodeList[T any](blob []byte) ([]T, error) {
	var docs []T
	if len(blob) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(blob, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
