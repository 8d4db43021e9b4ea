package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid    = errors.New("参数错误")
	ErrCommentNotFound = errors.New("评论不存在")
	ErrContentInvalid  = errors.New("评论内容长度需在 1-1000 字符之间")
	ErrEmptyBatch      = errors.New("批量操作的评论 ID 列表不能为空")
	ErrRemarkRequired  = errors.New("隐藏评论必须填写备注")
	ErrRequestFailed   = errors.New("请求失败，请稍后重试")
	UnauthorizedError  = errors.New("权限不足")
	UnExpectedError    = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrCommentNotFound: NotFound,
	ErrContentInvalid:  BadRequest,
	ErrEmptyBatch:      BadRequest,
	ErrRemarkRequired:  BadRequest,
	ErrRequestFailed:   InternalServerError,
	UnauthorizedError:  Unauthorized,
	UnExpectedError:    InternalServerError,
}
