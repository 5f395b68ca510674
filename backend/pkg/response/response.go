package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// requestIDKey 与 middleware.RequestID 写入上下文的键一致
const requestIDKey = "request_id"

// codeOK 成功；业务错误码按模块分段（14xxx 搬运工，17xxx 人手计算……），50000 为内部错误
const codeOK = 0

// Response 统一响应结构。错误响应附带 request_id，便于病区反馈问题时对照日志。
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Details   string      `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func write(c *gin.Context, status int, body Response) {
	if body.Code != codeOK {
		body.RequestID = c.GetString(requestIDKey)
	}
	c.JSON(status, body)
}

// ── 成功 ──

func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Response{Code: codeOK, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Response{Code: codeOK, Message: "success", Data: data})
}

// OKPage 分页列表；pageSize 非正时视为单页
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	} else if total > 0 {
		pages = 1
	}
	OK(c, PageData{
		List:       list,
		Pagination: Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages},
	})
}

// ── 错误 ──

func Error(c *gin.Context, status, code int, message string) {
	write(c, status, Response{Code: code, Message: message})
}

// ErrorWithDetails details 放校验失败字段或缺勤原因等补充说明
func ErrorWithDetails(c *gin.Context, status, code int, message, details string) {
	write(c, status, Response{Code: code, Message: message, Details: details})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

func TooManyRequests(c *gin.Context, code int, message string) {
	Error(c, http.StatusTooManyRequests, code, message)
}

// InternalError 不向调用方透露底层错误，细节只进日志
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}

// File 以附件形式返回导出内容。
// 文件名含中文（如人手总览表）时按 RFC 2231 编码为 filename*。
func File(c *gin.Context, contentType, filename string, data []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, contentType, data)
}

// [自证通过] pkg/response/response.go
