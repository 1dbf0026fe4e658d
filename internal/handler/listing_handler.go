// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"autohub-go/internal/service"
	"autohub-go/internal/similarity"
	"autohub-go/pkg/log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingHandler 结构体定义了车源相关的处理器。
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler 创建一个新的 ListingHandler 实例。
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// ListListings 处理分页获取车源列表的请求。
func (h *ListingHandler) ListListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	listings, total, err := h.listingService.ListListings(c.Request.Context(), page, pageSize)
	if err != nil {
		log.Errorf("[ListingHandler] 获取车源列表失败, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to retrieve listings", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"items":    listings,
			"total":    total,
			"page":     page,
			"pageSize": pageSize,
		},
	})
}

// GetListing 处理获取单条车源详情的请求。
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID := c.Param("id")

	listing, err := h.listingService.GetListing(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Listing not found", "data": nil})
			return
		}
		log.Errorf("[ListingHandler] 获取车源详情失败, id: %s, error: %v", listingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to retrieve listing", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": listing})
}

// GetSimilar 处理获取相似车源推荐的请求。
// 可选查询参数: maxResults、minScore、includeScores、preferSameDealer、excludeIds（逗号分隔）。
func (h *ListingHandler) GetSimilar(c *gin.Context) {
	listingID := c.Param("id")
	opts := parseSimilarOptions(c)

	matches, err := h.listingService.GetSimilar(c.Request.Context(), listingID, opts)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Listing not found", "data": nil})
			return
		}
		log.Errorf("[ListingHandler] 获取相似车源失败, id: %s, error: %v", listingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to retrieve similar listings", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": matches})
}

// parseSimilarOptions 从查询参数解析推荐选项，非法值回退到零值（由下游取默认）。
func parseSimilarOptions(c *gin.Context) similarity.Options {
	var opts similarity.Options
	if v, err := strconv.Atoi(c.Query("maxResults")); err == nil && v > 0 {
		opts.MaxResults = v
	}
	if v, err := strconv.Atoi(c.Query("minScore")); err == nil && v > 0 {
		opts.MinScore = v
	}
	opts.IncludeScores = c.Query("includeScores") == "true"
	opts.PreferSameDealer = c.Query("preferSameDealer") == "true"
	if raw := c.Query("excludeIds"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				opts.ExcludeIDs = append(opts.ExcludeIDs, id)
			}
		}
	}
	return opts
}
