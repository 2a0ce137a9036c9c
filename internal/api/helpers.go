package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func currentUserID(c *gin.Context) uint {
	id, _ := c.Get("user_id")
	uid, _ := id.(uint)
	return uid
}

func currentUsername(c *gin.Context) string {
	name, _ := c.Get("username")
	username, _ := name.(string)
	return username
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
