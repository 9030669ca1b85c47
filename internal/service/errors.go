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
	ErrParamInvalid         = errors.New("参数错误")
	ErrPostNotFound         = errors.New("帖子不存在")
	ErrPostAlreadyPublished = errors.New("帖子已发布，不可再操作")
	ErrStatusNotAllowed     = errors.New("当前状态不允许该操作")
	ErrReasonRequired       = errors.New("驳回原因不能为空")
	ErrEmptyUpdates         = errors.New("编辑内容不能为空")
	ErrInteractionNotFound  = errors.New("互动消息不存在")
	ErrNoTrendAvailable     = errors.New("暂无可用趋势话题")
	ErrPasswordIncorrect    = errors.New("密码错误")
	ErrOperatorNotFound     = errors.New("运营账号不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrPostNotFound:         NotFound,
	ErrPostAlreadyPublished: BadRequest,
	ErrStatusNotAllowed:     BadRequest,
	ErrReasonRequired:       BadRequest,
	ErrEmptyUpdates:         BadRequest,
	ErrInteractionNotFound:  NotFound,
	ErrNoTrendAvailable:     NotFound,
	ErrPasswordIncorrect:    Unauthorized,
	ErrOperatorNotFound:     Unauthorized,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
