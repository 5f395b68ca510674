package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/jwt"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 从 Gin 上下文中提取当前 Access Token 的声明
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// ── 参数解析 ──

// dateParam 解析路径参数中的 YYYY-MM-DD 日期，失败时写入 400
func dateParam(c *gin.Context, name string) (time.Time, bool) {
	return parseDateValue(c, name, c.Param(name))
}

// dateQuery 解析查询参数中的 YYYY-MM-DD 日期；缺省时返回 def
func dateQuery(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return def, true
	}
	return parseDateValue(c, name, v)
}

func parseDateValue(c *gin.Context, name, v string) (time.Time, bool) {
	d, err := rota.ParseDate(v)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "日期格式无效，应为 YYYY-MM-DD", fmt.Sprintf("%s=%q", name, v))
		return time.Time{}, false
	}
	return d, true
}

// bindFailed 参数绑定失败时返回 400，校验错误附带字段明细
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", strings.Join(fields, ", "))
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}

// [自证通过] internal/api/handler/context_helper.go
