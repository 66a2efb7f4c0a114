package handlers

import (
	"strconv"
	"strings"

	"foodgram-backend/apperr"
	"foodgram-backend/config"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type pageResponse struct {
	Count   int64       `json:"count"`
	Page    int         `json:"page"`
	Pages   int         `json:"pages"`
	Results interface{} `json:"results"`
}

func pageFromQuery(c *gin.Context, cfg config.PaginationConfig) services.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return services.NewPage(page, limit, cfg)
}

func paginated(page services.Page, total int64, results interface{}) pageResponse {
	return pageResponse{Count: total, Page: page.Number, Pages: page.Pages(total), Results: results}
}

// queryFlag reads a boolean filter. Booleans are accepted as is and any
// other integer counts as set when it is non-zero.
func queryFlag(c *gin.Context, key string) (bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, apperr.Validationf("%s must be a number or a boolean", key)
	}
	return n != 0, nil
}
