package utils

import "github.com/gin-gonic/gin"

// Fail writes the error shape clients expect: a status code and a bare message.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}

// Internal answers a dependency failure without leaking internal detail.
func Internal(ctx *gin.Context) {
	Fail(ctx, 500, "Internal Server Error")
}
