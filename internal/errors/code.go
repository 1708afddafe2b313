package errors

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
)

// Quota Service 错误定义
// Reason 即错误标识，Code 沿用 HTTP 语义，便于外部服务直接映射。
//
// 模块划分：
//   QUOTA_*     配额模块
//   SCOPE_*     作用域模块
//   COST_*      成本跟踪模块
//   BACKEND_*   成本后端（外部计价服务）

// 配额模块
const (
	// ReasonQuotaNotFound 配额记录不存在
	ReasonQuotaNotFound = "QUOTA_NOT_FOUND"
	// ReasonCreationConditionFailed 配额创建条件不满足
	ReasonCreationConditionFailed = "CREATION_CONDITION_FAILED"
	// ReasonQuotaLockFailed 获取配额锁失败
	ReasonQuotaLockFailed = "QUOTA_LOCK_FAILED"
)

// 作用域模块
const (
	// ReasonScopeNotFound 作用域不存在
	ReasonScopeNotFound = "SCOPE_NOT_FOUND"
	// ReasonUnlinkNotSupported 解除关联暂不支持
	ReasonUnlinkNotSupported = "UNLINK_NOT_SUPPORTED"
	// ReasonInvalidScope 作用域或层级关系不合法
	ReasonInvalidScope = "INVALID_SCOPE"
	// ReasonUnknownEvent 未知的生命周期事件
	ReasonUnknownEvent = "UNKNOWN_EVENT"
)

// 成本跟踪模块
const (
	// ReasonCostLimitExceeded 预估成本超出限额
	ReasonCostLimitExceeded = "COST_LIMIT_EXCEEDED"
	// ReasonResourceNotRegistered 资源类型未注册成本后端
	ReasonResourceNotRegistered = "RESOURCE_NOT_REGISTERED"
)

// 成本后端
const (
	// ReasonBackendNotImplemented 后端不支持该操作
	ReasonBackendNotImplemented = "BACKEND_NOT_IMPLEMENTED"
	// ReasonBackendError 后端调用失败
	ReasonBackendError = "BACKEND_ERROR"
)

var (
	ErrQuotaNotFound           = errors.NotFound(ReasonQuotaNotFound, "quota does not exist")
	ErrCreationConditionFailed = errors.BadRequest(ReasonCreationConditionFailed, "quota creation condition failed")
	ErrQuotaLockFailed         = errors.InternalServer(ReasonQuotaLockFailed, "failed to acquire quota lock")
	ErrScopeNotFound           = errors.NotFound(ReasonScopeNotFound, "scope does not exist")
	ErrUnlinkNotSupported      = errors.New(501, ReasonUnlinkNotSupported, "scope unlink is not supported")
	ErrInvalidScope            = errors.BadRequest(ReasonInvalidScope, "invalid scope")
	ErrUnknownEvent            = errors.BadRequest(ReasonUnknownEvent, "unknown lifecycle event")
	ErrCostLimitExceeded       = errors.Forbidden(ReasonCostLimitExceeded, "estimated cost is over limit")
	ErrResourceNotRegistered   = errors.BadRequest(ReasonResourceNotRegistered, "resource type is not registered for cost tracking")
	ErrBackendNotImplemented   = errors.New(501, ReasonBackendNotImplemented, "backend does not support this operation")
	ErrBackendError            = errors.New(502, ReasonBackendError, "backend request failed")
)

// QuotaNotFound 带上下文的配额不存在错误
func QuotaNotFound(name, scope string) *errors.Error {
	return errors.NotFound(ReasonQuotaNotFound, "quota does not exist").
		WithMetadata(map[string]string{"quota": name, "scope": scope})
}

// CostLimitExceeded 带详情的成本超限错误
func CostLimitExceeded(detail string) *errors.Error {
	return errors.Forbidden(ReasonCostLimitExceeded, detail)
}

// BackendError 包装后端原始错误
func BackendError(cause error) *errors.Error {
	return errors.New(502, ReasonBackendError, "backend request failed").WithCause(cause)
}

// InvalidScope 带原因的作用域不合法错误
func InvalidScope(format string, args ...interface{}) *errors.Error {
	return errors.BadRequest(ReasonInvalidScope, fmt.Sprintf(format, args...))
}

// IsPermanent 重试也无法成功的错误（参数/状态类错误及不支持的操作）
func IsPermanent(err error) bool {
	code := errors.Code(err)
	return (code >= 400 && code < 500) || code == 501
}

// IsQuotaNotFound 判断配额不存在
func IsQuotaNotFound(err error) bool {
	return errors.Reason(err) == ReasonQuotaNotFound
}

// IsCreationConditionFailed 判断创建条件不满足
func IsCreationConditionFailed(err error) bool {
	return errors.Reason(err) == ReasonCreationConditionFailed
}

// IsCostLimitExceeded 判断成本超限
func IsCostLimitExceeded(err error) bool {
	return errors.Reason(err) == ReasonCostLimitExceeded
}

// IsBackendNotImplemented 判断后端未实现
func IsBackendNotImplemented(err error) bool {
	return errors.Reason(err) == ReasonBackendNotImplemented
}

// IsResourceNotRegistered 判断资源类型未注册
func IsResourceNotRegistered(err error) bool {
	return errors.Reason(err) == ReasonResourceNotRegistered
}

// IsScopeNotFound 判断作用域不存在
func IsScopeNotFound(err error) bool {
	return errors.Reason(err) == ReasonScopeNotFound
}

// IsUnlinkNotSupported 判断解除关联不支持
func IsUnlinkNotSupported(err error) bool {
	return errors.Reason(err) == ReasonUnlinkNotSupported
}
