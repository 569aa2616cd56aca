package employee

import (
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/numeric"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name     string        `json:"name" yaml:"name"`
	Email    string        `json:"email" yaml:"email"`
	Position string        `json:"position" yaml:"position"`
	Salary   numeric.Input `json:"salary" yaml:"salary"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "is required"})
	}
	if r.Salary.Decimal().IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest edits roster details. Payroll settings are only ever
// written by a disbursement.
type UpdateEmployeeRequest struct {
	ID       ID             `json:"-"`
	Name     *string        `json:"name,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Position *string        `json:"position,omitempty"`
	Salary   *numeric.Input `json:"salary,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "cannot be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "cannot be empty"})
	}
	if r.Salary != nil && r.Salary.Decimal().IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingsResponse struct {
	DaysWorked    numeric.Input `json:"days_worked" yaml:"days_worked"`
	WFOTarget     numeric.Input `json:"wfo_target" yaml:"wfo_target"`
	WFODone       numeric.Input `json:"wfo_done" yaml:"wfo_done"`
	OvertimeHours numeric.Input `json:"ot_hours" yaml:"ot_hours"`
	OvertimeRate  numeric.Input `json:"ot_rate" yaml:"ot_rate"`
	Insurance     numeric.Input `json:"insurance" yaml:"insurance"`
	DeductPF      bool          `json:"deduct_pf" yaml:"deduct_pf"`
}

type EmployeeResponse struct {
	ID       ID                `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Email    string            `json:"email" yaml:"email"`
	Position string            `json:"position" yaml:"position"`
	Salary   decimal.Decimal   `json:"salary" yaml:"salary"`
	Settings *SettingsResponse `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// ToResponse maps an employee entity to its API representation.
func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		Position: e.Position,
		Salary:   e.Salary,
	}
	if e.Settings != nil {
		resp.Settings = &SettingsResponse{
			DaysWorked:    e.Settings.DaysWorked,
			WFOTarget:     e.Settings.WFOTarget,
			WFODone:       e.Settings.WFODone,
			OvertimeHours: e.Settings.OvertimeHours,
			OvertimeRate:  e.Settings.OvertimeRate,
			Insurance:     e.Settings.Insurance,
			DeductPF:      e.Settings.DeductPF,
		}
	}
	return resp
}
