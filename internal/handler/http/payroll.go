package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/handler/http/response"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Per employee
	GetDefaults(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	Disburse(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)

	// Ledger
	Ledger(w http.ResponseWriter, r *http.Request)
	DeleteRecord(w http.ResponseWriter, r *http.Request)
	ResetLedger(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// decodePeriodInput reads the form values. An empty body means all defaults.
func decodePeriodInput(r *http.Request) (payroll.PeriodInput, error) {
	var input payroll.PeriodInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		return payroll.PeriodInput{}, err
	}
	return input, nil
}

// ========== PER EMPLOYEE ==========

func (h *payrollHandlerImpl) GetDefaults(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Defaults(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	input, err := decodePeriodInput(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Preview(r.Context(), id, input)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Disburse(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	input, err := decodePeriodInput(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Disburse(r.Context(), id, input)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary disbursed for "+result.Month, result)
}

func (h *payrollHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.History(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== LEDGER ==========

func (h *payrollHandlerImpl) Ledger(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Ledger(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	rawIndex := chi.URLParam(r, "index")
	if !validator.IsNumeric(rawIndex) {
		response.BadRequest(w, "Record index must be a number", nil)
		return
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		response.BadRequest(w, "Record index out of range", nil)
		return
	}

	ref := r.URL.Query().Get("ref")
	if ref != "" && !validator.IsValidUUID(ref) {
		response.BadRequest(w, "Invalid record reference", nil)
		return
	}

	if err := h.payrollService.DeleteRecord(r.Context(), index, ref); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted", nil)
}

func (h *payrollHandlerImpl) ResetLedger(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.ResetLedger(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll ledger cleared", nil)
}
