package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/mtss-api/internal/middleware"
	"github.com/noah-isme/mtss-api/internal/models"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/response"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// uuidParam reads a path parameter and rejects anything that is not a UUID.
func uuidParam(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		response.Error(c, validation.Invalid(name, name+" deve ser um UUID válido"))
		return "", false
	}
	return raw, true
}

// bindJSON decodes the request body; field rules are enforced by the services.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "corpo da requisição inválido"))
		return false
	}
	return true
}

func includeInactive(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))
	return err == nil && v
}

func respondWithMeta(c *gin.Context, status int, data interface{}) {
	response.JSON(c, status, data, middleware.ExtractMeta(c))
}
