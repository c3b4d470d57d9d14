package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可携带底层原因（Err）
//   - 支持错误检查函数（IsXXX），透过 errors.As 识别被包装的错误
//
// 使用场景：
//   - Repository 错误：UNAVAILABLE（库连不上）、NOT_FOUND
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - Transport 错误：INVALID_INPUT（非法 user_id / count）
//
// 注意两个"看起来像错误"的情形不是错误：
// 空目录返回空结果，冷启动用户走热门兜底，二者都正常返回。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "repository", "engine"）
	Err     error  // 底层原因，可为 nil
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithCause 返回携带底层原因的副本，原错误保持不变，
// 可继续当作哨兵模板使用（如 ErrRepositoryUnavailable）。
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Module:  e.Module,
		Err:     err,
	}
}

// IsDomainError 检查错误链上是否有 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 从错误链上取出 DomainError，没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 依赖不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleRepository = "repository" // 数据仓储
	ModuleEngine     = "engine"     // 推荐引擎
	ModuleStore      = "store"      // 存储模块
	ModuleFeature    = "feature"    // 特征模块
	ModuleTransport  = "transport"  // 对外接口
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
