package bizerror

import (
	"errors"
	"fieldops/common"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		if WantsHTML(c) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		respond(c, http.StatusUnauthorized, &common.ErrorBody{Code: "common.unauthenticated", Message: "unauthenticated"})
		return
	}

	if bizErr, ok := genericErr.(common.BizError); ok {
		r := bizErr.Respond()
		respond(c, r.Status, &common.ErrorBody{Code: r.Code, Message: r.Message, Data: r.Data})
		return
	}

	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		respond(c, http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		return
	}

	if errors.Is(genericErr, ErrForbidden) {
		respond(c, http.StatusForbidden, &common.ErrorBody{Code: "security.forbidden", Message: "acceso denegado"})
		return
	}
	if errors.Is(genericErr, ErrUnknownStatus) {
		respond(c, http.StatusBadRequest, &common.ErrorBody{Code: "lifecycle.unknown_status", Message: "estado no encontrado en el catálogo"})
		return
	}
	if errors.Is(genericErr, ErrInvalidTransition) {
		respond(c, http.StatusBadRequest, &common.ErrorBody{Code: "lifecycle.invalid_transition", Message: "transición no permitida"})
		return
	}
	if errors.Is(genericErr, ErrEmptyReason) {
		respond(c, http.StatusBadRequest, &common.ErrorBody{Code: "lifecycle.empty_reason", Message: "debes indicar un motivo de rechazo"})
		return
	}
	if errors.Is(genericErr, ErrEmptyLogEntry) {
		respond(c, http.StatusBadRequest, &common.ErrorBody{Code: "worklog.empty_entry", Message: "escribe algo o sube una foto"})
		return
	}
	if errors.Is(genericErr, ErrNotFound) {
		respond(c, http.StatusNotFound, &common.ErrorBody{Code: "common.record_not_found", Message: "record not found"})
		return
	}
	if errors.Is(genericErr, ErrNeedsReconciliation) {
		respond(c, http.StatusConflict, &common.ErrorBody{Code: "lifecycle.needs_reconciliation", Message: genericErr.Error()})
		return
	}

	respond(c, http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: err.Error()})
}

// WantsHTML reports whether the request came from browser navigation rather
// than an API-style caller.
func WantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

func respond(c *gin.Context, status int, body *common.ErrorBody) {
	if WantsHTML(c) {
		c.HTML(status, "error.tmpl", gin.H{"Status": status, "Mensaje": body.Message, "Code": body.Code})
	} else {
		c.JSON(status, body)
	}
	c.Abort()
}
