package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/GTDGit/customer_portal/internal/utils"
)

// BindAndValidate binds the JSON body into out and validates it. On failure
// it writes a 400 response and returns false.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		utils.Error(c, 400, utils.ErrInvalidRequest.Error(), "Invalid request body")
		return false
	}
	if err := v.Struct(out); err != nil {
		utils.ValidationError(c, validationErrorsToMap(err))
		return false
	}
	return true
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Namespace()] = fe.Tag()
		}
		return out
	}
	out["body"] = err.Error()
	return out
}
