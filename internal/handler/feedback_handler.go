package handler

import (
	"errors"
	"net/http"

	"autohub-go/internal/service"
	"autohub-go/pkg/feedback"
	"autohub-go/pkg/log"
	"autohub-go/pkg/remote"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler 处理网站反馈提交的请求。
type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

// NewFeedbackHandler 创建一个新的 FeedbackHandler 实例。
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Submit 接收反馈表单并转发给下游反馈服务。
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var submission feedback.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "Invalid request body", "data": nil})
		return
	}

	if err := h.feedbackService.Submit(c.Request.Context(), submission); err != nil {
		if errors.Is(err, service.ErrFeedbackCategoryRequired) || errors.Is(err, service.ErrFeedbackRatingOutOfRange) {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error(), "data": nil})
			return
		}
		log.Errorf("[FeedbackHandler] 提交反馈失败, error: %v", err)
		// 下游服务限流或超时时提示稍后重试
		if k := remote.KindOf(err); k == remote.KindRateLimit || k == remote.KindTimeout {
			c.JSON(http.StatusServiceUnavailable, gin.H{"code": http.StatusServiceUnavailable, "message": "Feedback service is busy, please try again later", "data": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to submit feedback", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}
