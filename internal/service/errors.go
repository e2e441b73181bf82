package service

import (
	"errors"
	"time"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	TooManyRequests     = 429
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrInvalidVerdict      = errors.New("审核结论无效")
	ErrGateDenied          = errors.New("当前不允许提交")
	ErrStoryNotFound       = errors.New("作品不存在")
	ErrChapterNotFound     = errors.New("章节不存在")
	ErrReviewNotFound      = errors.New("审核记录不存在")
	ErrReviewStale         = errors.New("审核记录已处理或已过期")
	ErrInvalidTransition   = errors.New("当前状态不允许该操作")
	ErrStoryNotCompletable = errors.New("仅已发布的作品可以完结")
	ErrUpstreamUnavailable = errors.New("AI审核服务暂不可用")
	ErrAuthorRestricted    = errors.New("作者已被限制发布")
	ErrNoticeNotFound      = errors.New("通知不存在")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

// 拒绝原因
const (
	ReasonParentState      = "parent_state"
	ReasonPendingLimit     = "pending_limit"
	ReasonActiveStoryLimit = "active_story_limit"
	ReasonCooldown         = "cooldown"
)

// GateDeniedError 提交被拦截，冷却期内携带可重试时间
type GateDeniedError struct {
	Reason     string
	RetryAfter *time.Time
}

func (e *GateDeniedError) Error() string {
	switch e.Reason {
	case ReasonParentState:
		return "所属作品尚未提交审核"
	case ReasonPendingLimit:
		return "已有内容正在审核中"
	case ReasonActiveStoryLimit:
		return "请先完结已发布的作品"
	case ReasonCooldown:
		if e.RetryAfter != nil {
			return "审核未通过，请于 " + e.RetryAfter.Format(time.RFC3339) + " 后再提交"
		}
		return "审核未通过，冷却中"
	}
	return ErrGateDenied.Error()
}

func (e *GateDeniedError) Is(target error) bool {
	return target == ErrGateDenied
}

// RetryIn 距离可再次提交的时长
func (e *GateDeniedError) RetryIn(now time.Time) time.Duration {
	if e.RetryAfter == nil {
		return 0
	}
	return e.RetryAfter.Sub(now)
}

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrInvalidVerdict:      BadRequest,
	ErrGateDenied:          TooManyRequests,
	ErrStoryNotFound:       NotFound,
	ErrChapterNotFound:     NotFound,
	ErrReviewNotFound:      NotFound,
	ErrReviewStale:         Conflict,
	ErrInvalidTransition:   Conflict,
	ErrStoryNotCompletable: Conflict,
	ErrUpstreamUnavailable: ServiceUnavailable,
	ErrAuthorRestricted:    Forbidden,
	ErrNoticeNotFound:      NotFound,
	UnauthorizedError:      Forbidden,
	UnExpectedError:        InternalServerError,
}

// IsExpected 拦截与冲突属于正常业务结果，不按错误记录日志
func IsExpected(err error) bool {
	return errors.Is(err, ErrGateDenied) ||
		errors.Is(err, ErrReviewStale) ||
		errors.Is(err, ErrInvalidTransition)
}

// LookupCode 沿错误链查找业务码
func LookupCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
