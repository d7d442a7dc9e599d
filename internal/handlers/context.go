package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/requestdata"
)

// currentUserID returns the authenticated doctor's user id, zero when the
// request somehow reached a protected handler without one.
func currentUserID(c *gin.Context) int64 {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    return 0
  }
  return rd.UserID
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
  v, err := strconv.ParseInt(c.Param(name), 10, 64)
  if err != nil || v <= 0 {
    return 0, false
  }
  return v, true
}
