// Package remote 提供调用外部协作服务时共用的错误分类与有界重试。
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// Kind 是协作服务错误的分类。
type Kind string

const (
	KindNetwork   Kind = "network"    // 连接失败、DNS 失败等
	KindRateLimit Kind = "rate_limit" // 429
	KindServer    Kind = "server"     // 5xx
	KindTimeout   Kind = "timeout"    // 超时
	KindClient    Kind = "client"     // 其余 4xx，重试无意义
)

// Error 携带分类信息的协作服务错误。
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("remote %s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable 判断这类错误是否值得重试。4xx（限流除外）不重试。
func (e *Error) Retryable() bool {
	return e.Kind != KindClient
}

// FromStatus 根据 HTTP 状态码构造分类错误。
func FromStatus(statusCode int, err error) *Error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, StatusCode: statusCode, Err: err}
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return &Error{Kind: KindTimeout, StatusCode: statusCode, Err: err}
	case statusCode >= 500:
		return &Error{Kind: KindServer, StatusCode: statusCode, Err: err}
	default:
		return &Error{Kind: KindClient, StatusCode: statusCode, Err: err}
	}
}

// FromTransport 对传输层错误（http.Client.Do 的返回）做分类。
func FromTransport(err error) *Error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded):
		return &Error{Kind: KindTimeout, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Kind: KindTimeout, Err: err}
	default:
		return &Error{Kind: KindNetwork, Err: err}
	}
}

// KindOf 提取错误的分类；未分类的错误按网络错误处理。
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindNetwork
}

// RetryOpts 配置重试行为。
type RetryOpts struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetry 是协作服务调用的默认重试配置。
var DefaultRetry = RetryOpts{
	MaxAttempts: 3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     5 * time.Second,
}

// Do 以指数退避重试 f，最多 MaxAttempts 次。
// 不可重试的错误（客户端 4xx）立即返回；context 取消时返回 ctx.Err()。
func Do(ctx context.Context, opts RetryOpts, f func(context.Context) error) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultRetry.MaxAttempts
	}
	if opts.InitialWait <= 0 {
		opts.InitialWait = DefaultRetry.InitialWait
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = DefaultRetry.MaxWait
	}

	var err error
	wait := opts.InitialWait

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		err = f(ctx)
		if err == nil {
			return nil
		}

		var re *Error
		if errors.As(err, &re) && !re.Retryable() {
			return err
		}
		if attempt == opts.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		wait *= 2
		if wait > opts.MaxWait {
			wait = opts.MaxWait
		}
	}
	return err
}
