package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/models"
	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PersonnelHandler holds the personnel service.
type PersonnelHandler struct {
	personnelService services.PersonnelService
}

// NewPersonnelHandler creates a new PersonnelHandler.
func NewPersonnelHandler(ps services.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{personnelService: ps}
}

// --- Departments ---

func (h *PersonnelHandler) CreateDepartment(c *gin.Context) {
	var dept models.Department
	if err := c.ShouldBindJSON(&dept); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.personnelService.CreateDepartment(&dept); err != nil {
		utils.LogError(err, "CreateDepartment: Error from personnelService.CreateDepartment")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Department name already exists.", err)
		} else {
			respondInternal(c, "Failed to create department.")
		}
		return
	}
	c.JSON(http.StatusCreated, dept)
}

func (h *PersonnelHandler) GetDepartments(c *gin.Context) {
	departments, err := h.personnelService.GetDepartments()
	if err != nil {
		utils.LogError(err, "GetDepartments: Error from personnelService.GetDepartments")
		respondInternal(c, "Failed to fetch departments.")
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h *PersonnelHandler) UpdateDepartment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var dept models.Department
	if err := c.ShouldBindJSON(&dept); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	dept.ID = id
	if err := h.personnelService.UpdateDepartment(&dept); err != nil {
		utils.LogError(err, "UpdateDepartment: Error from personnelService.UpdateDepartment")
		if errors.Is(err, services.ErrDepartmentNotFound) {
			respondNotFound(c, "Department not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Department name already exists.", err)
		} else {
			respondInternal(c, "Failed to update department.")
		}
		return
	}
	c.JSON(http.StatusOK, dept)
}

func (h *PersonnelHandler) DeleteDepartment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.personnelService.DeleteDepartment(id); err != nil {
		utils.LogError(err, "DeleteDepartment: Error from personnelService.DeleteDepartment")
		if errors.Is(err, services.ErrDepartmentNotFound) {
			respondNotFound(c, "Department not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Department still has employees.", err)
		} else {
			respondInternal(c, "Failed to delete department.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}

// --- Employees ---

func (h *PersonnelHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	emp, err := h.personnelService.CreateEmployee(req)
	if err != nil {
		utils.LogError(err, "CreateEmployee: Error from personnelService.CreateEmployee")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "User already has an employee profile.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to create employee.")
		}
		return
	}
	c.JSON(http.StatusCreated, emp)
}

func (h *PersonnelHandler) GetEmployees(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"
	employees, err := h.personnelService.GetEmployees(activeOnly)
	if err != nil {
		utils.LogError(err, "GetEmployees: Error from personnelService.GetEmployees")
		respondInternal(c, "Failed to fetch employees.")
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *PersonnelHandler) GetEmployeeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	emp, err := h.personnelService.GetEmployeeByID(id)
	if err != nil {
		utils.LogError(err, "GetEmployeeByID: Error from personnelService.GetEmployeeByID")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			respondNotFound(c, "Employee not found.", err)
		} else {
			respondInternal(c, "Failed to fetch employee.")
		}
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *PersonnelHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var emp models.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	emp.ID = id
	if err := h.personnelService.UpdateEmployee(&emp); err != nil {
		utils.LogError(err, "UpdateEmployee: Error from personnelService.UpdateEmployee")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			respondNotFound(c, "Employee not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update employee.")
		}
		return
	}
	c.JSON(http.StatusOK, emp)
}

// TerminateEmployee ends employment: the profile goes inactive and
// active contracts are closed.
func (h *PersonnelHandler) TerminateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		EndDate string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.personnelService.TerminateEmployee(id, req.EndDate); err != nil {
		utils.LogError(err, "TerminateEmployee: Error from personnelService.TerminateEmployee")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			respondNotFound(c, "Employee not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to terminate employee.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee terminated"})
}

// --- Contracts ---

func (h *PersonnelHandler) CreateContract(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	contract.EmployeeID = employeeID

	if err := h.personnelService.CreateContract(&contract); err != nil {
		utils.LogError(err, "CreateContract: Error from personnelService.CreateContract")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			respondNotFound(c, "Employee not found.", err)
		} else if errors.Is(err, services.ErrEmployeeInactive) {
			respondConflict(c, "Employee is no longer active.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to create contract.")
		}
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *PersonnelHandler) GetContracts(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contracts, err := h.personnelService.GetContracts(employeeID)
	if err != nil {
		utils.LogError(err, "GetContracts: Error from personnelService.GetContracts")
		respondInternal(c, "Failed to fetch contracts.")
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *PersonnelHandler) GetActiveContract(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contract, err := h.personnelService.GetActiveContract(employeeID)
	if err != nil {
		utils.LogError(err, "GetActiveContract: Error from personnelService.GetActiveContract")
		if errors.Is(err, services.ErrNoActiveContract) {
			respondNotFound(c, "No active contract for this employee.", err)
		} else {
			respondInternal(c, "Failed to fetch active contract.")
		}
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *PersonnelHandler) UpdateContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "contract_id")
	if !ok {
		return
	}
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	contract.ID = contractID
	if err := h.personnelService.UpdateContract(&contract); err != nil {
		utils.LogError(err, "UpdateContract: Error from personnelService.UpdateContract")
		if errors.Is(err, services.ErrContractNotFound) {
			respondNotFound(c, "Contract not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update contract.")
		}
		return
	}
	c.JSON(http.StatusOK, contract)
}

// --- Attendance ---

func (h *PersonnelHandler) RecordAttendance(c *gin.Context) {
	var req services.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	a, err := h.personnelService.RecordAttendance(req)
	if err != nil {
		utils.LogError(err, "RecordAttendance: Error from personnelService.RecordAttendance")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			respondNotFound(c, "Employee not found.", err)
		} else if errors.Is(err, services.ErrAttendanceDuplicate) {
			respondConflict(c, "Attendance already recorded for this date.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to record attendance.")
		}
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *PersonnelHandler) GetAttendance(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	records, err := h.personnelService.GetAttendance(employeeID, c.Query("from"), c.Query("to"))
	if err != nil {
		utils.LogError(err, "GetAttendance: Error from personnelService.GetAttendance")
		if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to fetch attendance.")
		}
		return
	}
	if records == nil {
		records = []models.Attendance{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *PersonnelHandler) UpdateAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var a models.Attendance
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	a.ID = id
	if err := h.personnelService.UpdateAttendance(&a); err != nil {
		utils.LogError(err, "UpdateAttendance: Error from personnelService.UpdateAttendance")
		if errors.Is(err, services.ErrAttendanceNotFound) {
			respondNotFound(c, "Attendance record not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update attendance.")
		}
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *PersonnelHandler) DeleteAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.personnelService.DeleteAttendance(id); err != nil {
		utils.LogError(err, "DeleteAttendance: Error from personnelService.DeleteAttendance")
		if errors.Is(err, services.ErrAttendanceNotFound) {
			respondNotFound(c, "Attendance record not found.", err)
		} else {
			respondInternal(c, "Failed to delete attendance.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted"})
}

// --- Leaves ---

func (h *PersonnelHandler) RequestLeave(c *gin.Context) {
	var leave models.Leave
	if err := c.ShouldBindJSON(&leave); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.personnelService.RequestLeave(&leave); err != nil {
		utils.LogError(err, "RequestLeave: Error from personnelService.RequestLeave")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			respondNotFound(c, "Employee not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to create leave request.")
		}
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *PersonnelHandler) GetLeaves(c *gin.Context) {
	leaves, err := h.personnelService.GetLeaves(queryInt64Ptr(c, "employee_id"), queryStringPtr(c, "status"))
	if err != nil {
		utils.LogError(err, "GetLeaves: Error from personnelService.GetLeaves")
		respondInternal(c, "Failed to fetch leave requests.")
		return
	}
	if leaves == nil {
		leaves = []models.Leave{}
	}
	c.JSON(http.StatusOK, leaves)
}

// ResolveLeave approves, rejects or cancels a pending leave request.
func (h *PersonnelHandler) ResolveLeave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Decision string `json:"decision" binding:"required"` // APPROVED, REJECTED or CANCELLED
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	var err error
	switch req.Decision {
	case models.LeaveApproved:
		err = h.personnelService.ApproveLeave(id, currentUserID(c))
	case models.LeaveRejected:
		err = h.personnelService.RejectLeave(id, currentUserID(c))
	case models.LeaveCancelled:
		err = h.personnelService.CancelLeave(id)
	default:
		respondBadRequest(c, "Decision must be APPROVED, REJECTED or CANCELLED.", errors.New("unknown decision"))
		return
	}
	if err != nil {
		utils.LogError(err, "ResolveLeave: Error from personnelService")
		if errors.Is(err, services.ErrLeaveNotFound) {
			respondNotFound(c, "Leave request not found.", err)
		} else if errors.Is(err, services.ErrLeaveNotPending) {
			respondConflict(c, "Leave request is not pending.", err)
		} else {
			respondInternal(c, "Failed to resolve leave request.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leave request " + req.Decision})
}

// --- Payroll ---

// GeneratePayroll builds one pay slip for an employee and period.
func (h *PersonnelHandler) GeneratePayroll(c *gin.Context) {
	var req struct {
		EmployeeID int64 `json:"employee_id" binding:"required"`
		Month      int   `json:"month" binding:"required,gte=1,lte=12"`
		Year       int   `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	payroll, err := h.personnelService.GeneratePayroll(req.EmployeeID, req.Month, req.Year)
	if err != nil {
		utils.LogError(err, "GeneratePayroll: Error from personnelService.GeneratePayroll")
		h.respondPayrollError(c, err, "Failed to generate payroll.")
		return
	}
	c.JSON(http.StatusCreated, payroll)
}

// GenerateMonthlyPayrolls runs the batch for all active employees.
func (h *PersonnelHandler) GenerateMonthlyPayrolls(c *gin.Context) {
	var req struct {
		Month int `json:"month" binding:"required,gte=1,lte=12"`
		Year  int `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.personnelService.GenerateMonthlyPayrolls(req.Month, req.Year)
	if err != nil {
		utils.LogError(err, "GenerateMonthlyPayrolls: Error from personnelService.GenerateMonthlyPayrolls")
		respondInternal(c, "Failed to generate payrolls.")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PersonnelHandler) GetPayrolls(c *gin.Context) {
	payrolls, err := h.personnelService.GetPayrolls(
		queryInt64Ptr(c, "employee_id"),
		queryIntPtr(c, "month"),
		queryIntPtr(c, "year"),
	)
	if err != nil {
		utils.LogError(err, "GetPayrolls: Error from personnelService.GetPayrolls")
		respondInternal(c, "Failed to fetch payrolls.")
		return
	}
	if payrolls == nil {
		payrolls = []models.Payroll{}
	}
	c.JSON(http.StatusOK, payrolls)
}

func (h *PersonnelHandler) GetPayrollByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payroll, err := h.personnelService.GetPayrollByID(id)
	if err != nil {
		utils.LogError(err, "GetPayrollByID: Error from personnelService.GetPayrollByID")
		h.respondPayrollError(c, err, "Failed to fetch payroll.")
		return
	}
	c.JSON(http.StatusOK, payroll)
}

func (h *PersonnelHandler) UpdatePayroll(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payroll models.Payroll
	if err := c.ShouldBindJSON(&payroll); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	payroll.ID = id
	if err := h.personnelService.UpdatePayroll(&payroll); err != nil {
		utils.LogError(err, "UpdatePayroll: Error from personnelService.UpdatePayroll")
		h.respondPayrollError(c, err, "Failed to update payroll.")
		return
	}
	c.JSON(http.StatusOK, payroll)
}

// MarkPayrollPaid stamps the pay slip with a payment date and method.
func (h *PersonnelHandler) MarkPayrollPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.personnelService.MarkPayrollPaid(id, req.PaymentMethod); err != nil {
		utils.LogError(err, "MarkPayrollPaid: Error from personnelService.MarkPayrollPaid")
		h.respondPayrollError(c, err, "Failed to mark payroll paid.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payroll marked paid"})
}

func (h *PersonnelHandler) DeletePayroll(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.personnelService.DeletePayroll(id); err != nil {
		utils.LogError(err, "DeletePayroll: Error from personnelService.DeletePayroll")
		h.respondPayrollError(c, err, "Failed to delete payroll.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payroll deleted"})
}

// respondPayrollError maps payroll errors to HTTP responses.
func (h *PersonnelHandler) respondPayrollError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrPayrollNotFound),
		errors.Is(err, services.ErrNoActiveContract):
		respondNotFound(c, err.Error(), err)
	case errors.Is(err, services.ErrPayrollExists),
		errors.Is(err, services.ErrPayrollAlreadyPaid),
		errors.Is(err, services.ErrEmployeeInactive):
		respondConflict(c, err.Error(), err)
	case errors.Is(err, services.ErrValidation):
		respondBadRequest(c, "Validation failed: "+err.Error(), err)
	default:
		respondInternal(c, fallback)
	}
}
