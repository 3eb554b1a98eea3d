package controllers

import (
	"net/http"

	"github.com/WideDream/sto-mana/services"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-gonic/gin"
)

// UpdateCustomerInput defines the expected JSON structure for updating a customer profile
type UpdateCustomerInput struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Note    string `json:"note"`
}

type CreditLimitInput struct {
	CreditLimit utils.FlexString `json:"creditLimit"`
}

type CustomerController struct {
	Customers *services.CustomerService
}

func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{Customers: customers}
}

// GetCustomers lists customers with their balances, optionally filtered by name
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.Customers.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	customer, err := cc.Customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer replaces the contact details of a customer. Unknown ids are
// accepted and change nothing.
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(utils.NormalizePhone(input.Phone)) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if err := cc.Customers.UpdateProfile(c.Request.Context(), id, input.Phone, input.Address, input.Note); err != nil {
		respondServiceError(c, err, "Failed to update customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

func (cc *CustomerController) SetCreditLimit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input CreditLimitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	limit := utils.ParseAmount(input.CreditLimit.String())
	if err := cc.Customers.SetCreditLimit(c.Request.Context(), id, limit); err != nil {
		respondServiceError(c, err, "Failed to update credit limit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credit limit updated", "creditLimit": limit})
}

// GetStatement returns the customer's records in date order with their totals
func (cc *CustomerController) GetStatement(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	statement, err := cc.Customers.Statement(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}
