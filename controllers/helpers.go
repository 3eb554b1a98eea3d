package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/WideDream/sto-mana/services"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError maps service sentinels onto HTTP status codes.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, fallback+": already exists")
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	default:
		zap.L().Error(fallback,
			zap.String("path", c.FullPath()),
			zap.Any("request_id", c.Value("requestId")),
			zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}

// paramID reads the :id path parameter and writes a 400 when it is not a
// positive integer.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return 0, false
	}
	return uint(id), true
}

func queryLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
