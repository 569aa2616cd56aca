package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrInvalidEmployeeID = errors.New("invalid employee id")
	ErrIDSpaceExhausted  = errors.New("no free employee id left")
	ErrNegativeSalary    = errors.New("salary must be non-negative")
)
