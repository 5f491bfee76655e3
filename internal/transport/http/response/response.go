package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 成功体固定带 message，附加字段（book/books/token 等）平铺在同层
func payload(msg string, extras gin.H) gin.H {
	body := gin.H{"message": msg}
	for k, v := range extras {
		body[k] = v
	}
	return body
}

func OK(c *gin.Context, msg string, extras gin.H) {
	c.JSON(http.StatusOK, payload(msg, extras))
}

func Created(c *gin.Context, msg string, extras gin.H) {
	c.JSON(http.StatusCreated, payload(msg, extras))
}

// Error 错误体只有 error 一个字段，内部细节不外漏
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// Abort 中间件用：写错误体并短路后续 handler
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Validation 字段级校验错误：{error, details: {field: [msgs]}}
func Validation(c *gin.Context, details map[string][]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",
		"details": details,
	})
}
