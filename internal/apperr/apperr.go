package apperr

import "net/http"

// E 贯穿 service 与 transport 的业务错误，Code 直接用 HTTP 语义
type E struct {
	Code int
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *E) Unwrap() error { return e.Err }

func BadRequest(msg string) *E   { return &E{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) *E { return &E{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) *E    { return &E{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) *E     { return &E{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) *E     { return &E{Code: http.StatusConflict, Msg: msg} }

// Upstream 第三方依赖（媒体存储、验证服务）失败；归因于调用方输入时用 BadRequest
func Upstream(msg string, err error) *E {
	return &E{Code: http.StatusBadGateway, Msg: msg, Err: err}
}

func Internal(msg string, err error) *E {
	return &E{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}
