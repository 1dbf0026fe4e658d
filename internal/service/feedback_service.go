// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"

	"autohub-go/pkg/feedback"
)

// 反馈校验错误。
var (
	ErrFeedbackCategoryRequired = errors.New("反馈类别不能为空")
	ErrFeedbackRatingOutOfRange = errors.New("评分必须在 1 到 5 之间")
)

// FeedbackService 定义了用户反馈提交的接口。
type FeedbackService interface {
	Submit(ctx context.Context, submission feedback.Submission) error
}

type feedbackService struct {
	client feedback.Client
}

// NewFeedbackService 创建一个新的 FeedbackService 实例。
func NewFeedbackService(client feedback.Client) FeedbackService {
	return &feedbackService{client: client}
}

// Submit 校验后把反馈转交给外部反馈服务。
func (s *feedbackService) Submit(ctx context.Context, submission feedback.Submission) error {
	if submission.Category == "" {
		return ErrFeedbackCategoryRequired
	}
	if submission.Rating < 1 || submission.Rating > 5 {
		return ErrFeedbackRatingOutOfRange
	}
	return s.client.Submit(ctx, submission)
}
