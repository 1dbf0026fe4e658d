package handler

import (
	"net/http"
	"strconv"

	"autohub-go/internal/service"
	"autohub-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SearchHandler 结构体定义了搜索相关的处理器。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// SearchListings 是处理车源全文搜索请求的 Gin 处理函数。
func (h *SearchHandler) SearchListings(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		log.Warnf("[SearchHandler] 搜索请求失败: q 参数为空")
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "Query parameter 'q' is required", "data": nil})
		return
	}
	topKStr := c.DefaultQuery("topK", "10")
	topK, err := strconv.Atoi(topKStr)
	if err != nil || topK <= 0 {
		topK = 10
	}

	results, err := h.searchService.SearchListings(c.Request.Context(), query, topK)
	if err != nil {
		log.Errorf("[SearchHandler] 搜索服务返回错误, query: %s, error: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Search failed", "data": nil})
		return
	}

	log.Infof("[SearchHandler] 搜索成功, query: '%s', 返回 %d 条结果", query, len(results))
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": results})
}
