package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/service"
	logger "github.com/svtitarenk/api-library/loggers"
)

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service and store errors to HTTP statuses. Anything
// unexpected is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, service.ErrReturnBeforeIssue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Logger.Error("request failed : ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
