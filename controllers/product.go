// controllers/product.go
package controllers

import (
	"net/http"

	"github.com/WideDream/sto-mana/services"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-gonic/gin"
)

// ProductInput defines the JSON body for catalog entries
type ProductInput struct {
	Name  string           `json:"name"`
	Unit  string           `json:"unit"`
	Price utils.FlexString `json:"price"`
	Stock utils.FlexString `json:"stock"`
}

func (in ProductInput) toService() services.ProductInput {
	return services.ProductInput{
		Name:  in.Name,
		Unit:  in.Unit,
		Price: in.Price.String(),
		Stock: in.Stock.String(),
	}
}

type ProductController struct {
	Products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{Products: products}
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	product, err := pc.Products.CreateProduct(c.Request.Context(), input.toService())
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.Products.ListProducts(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := pc.Products.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	product, err := pc.Products.UpdateProduct(c.Request.Context(), id, input.toService())
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := pc.Products.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
