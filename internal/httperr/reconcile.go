package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
)

// StatusFor devolve o status HTTP de um erro de caso de uso.
func StatusFor(err error) int {
	code := BusinessCode(err)
	switch {
	case code != "":
		if strings.HasSuffix(code, "_not_found") {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case errors.Is(err, reconcile.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, reconcile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, reconcile.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, reconcile.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError escreve a resposta de erro de um caso de uso. Erros internos não
// vazam o detalhe.
func FromError(c *gin.Context, err error, message string) {
	status := StatusFor(err)

	if code := BusinessCode(err); code != "" {
		Write(c, status, code, message)
		return
	}

	code := "internal_error"
	switch status {
	case http.StatusBadRequest:
		code = "validation_error"
	case http.StatusNotFound:
		code = "not_found"
	case http.StatusForbidden:
		code = "forbidden"
	case http.StatusConflict:
		code = "conflict"
	}
	if stage := reconcile.StageOf(err); stage != "" && status != http.StatusInternalServerError {
		code = string(stage) + "_" + code
	}

	Write(c, status, code, message)
}
