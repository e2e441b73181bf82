package response

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	stdjson "encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	TooManyRequests     = 429
	InternalServerError = 500
	ServiceUnavailable  = 503
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	FailWithData(c, businessCode, message, nil)
}

// FailWithData 失败时需要携带附加信息
func FailWithData(c *gin.Context, businessCode int, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    data,
	})
}

// BindError 请求体绑定失败一律按参数错误返回
func BindError(c *gin.Context, err error) {
	log.WarnContext(c.Request.Context(), "bind request failed", "err", err)
	if isMalformedJSON(err) {
		Fail(c, BadRequest, "Json错误")
		return
	}
	Fail(c, BadRequest, service.ErrParamInvalid.Error())
}

// isMalformedJSON gin 用 encoding/json 解码，goccy 的类型也一并识别
func isMalformedJSON(err error) bool {
	var syntaxErr *stdjson.SyntaxError
	var typeErr *stdjson.UnmarshalTypeError
	var goccySyntaxErr *json.SyntaxError
	var goccyTypeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &goccySyntaxErr) ||
		errors.As(err, &goccyTypeErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	if isMalformedJSON(err) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	var denied *service.GateDeniedError
	if errors.As(err, &denied) {
		FailWithData(c, TooManyRequests, denied.Error(), &dto.GateDeniedDTO{
			Reason:     denied.Reason,
			RetryAfter: util.FormatTimePtr(denied.RetryAfter),
		})
		return
	}

	code, ok := service.LookupCode(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}
	Fail(c, code, err.Error())
}
