// controllers/record.go
package controllers

import (
	"net/http"

	"github.com/WideDream/sto-mana/services"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-gonic/gin"
)

// RecordInput is the JSON body for creating or updating a record. Numeric
// fields accept numbers or strings; unparseable values count as 0.
type RecordInput struct {
	FullName      string           `json:"fullName"`
	Product       string           `json:"product"`
	Quantity      utils.FlexString `json:"quantity"`
	UnitPrice     utils.FlexString `json:"unitPrice"`
	Paid          utils.FlexString `json:"paid"`
	Date          string           `json:"date"`
	DueDate       string           `json:"dueDate"`
	PaymentStatus string           `json:"paymentStatus"`
	Notes         string           `json:"notes"`
}

func (in RecordInput) toService() services.RecordInput {
	return services.RecordInput{
		CustomerName:  in.FullName,
		Product:       in.Product,
		Quantity:      in.Quantity.String(),
		UnitPrice:     in.UnitPrice.String(),
		Paid:          in.Paid.String(),
		Date:          in.Date,
		DueDate:       in.DueDate,
		PaymentStatus: in.PaymentStatus,
		Notes:         in.Notes,
	}
}

type PastLoanInput struct {
	FullName string           `json:"fullName"`
	Amount   utils.FlexString `json:"amount"`
	Date     string           `json:"date"`
	DueDate  string           `json:"dueDate"`
	Notes    string           `json:"notes"`
}

type PaymentInput struct {
	Amount utils.FlexString `json:"amount"`
}

type RecordController struct {
	Ledger *services.LedgerService
}

func NewRecordController(ledger *services.LedgerService) *RecordController {
	return &RecordController{Ledger: ledger}
}

// CreateRecord adds a sale to the ledger
func (rc *RecordController) CreateRecord(c *gin.Context) {
	var input RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, err := rc.Ledger.CreateRecord(c.Request.Context(), input.toService())
	if err != nil {
		respondServiceError(c, err, "Failed to create record")
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (rc *RecordController) AddPastLoan(c *gin.Context) {
	var input PastLoanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, err := rc.Ledger.AddPastLoan(c.Request.Context(),
		input.FullName, input.Amount.String(), input.Date, input.DueDate, input.Notes)
	if err != nil {
		respondServiceError(c, err, "Failed to add past loan")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetRecords lists records, newest first, narrowed by the query filters
func (rc *RecordController) GetRecords(c *gin.Context) {
	filter := services.RecordFilter{
		Customer: c.Query("customer"),
		Product:  c.Query("product"),
		Status:   c.Query("status"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}

	rows, err := rc.Ledger.ListRecords(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch records")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (rc *RecordController) GetRecord(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	record, err := rc.Ledger.GetRecord(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch record")
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateRecord rewrites a record. The customer cannot be changed.
func (rc *RecordController) UpdateRecord(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, err := rc.Ledger.UpdateRecord(c.Request.Context(), id, input.toService())
	if err != nil {
		respondServiceError(c, err, "Failed to update record")
		return
	}
	c.JSON(http.StatusOK, record)
}

func (rc *RecordController) RecordPayment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, err := rc.Ledger.RecordPayment(c.Request.Context(), id, input.Amount.String())
	if err != nil {
		respondServiceError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteRecord succeeds whether or not the record existed
func (rc *RecordController) DeleteRecord(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := rc.Ledger.DeleteRecord(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete record")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
