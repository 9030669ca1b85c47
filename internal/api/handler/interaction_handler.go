package handler

import (
	"Limelight/internal/api/dto"
	"Limelight/internal/pkg/response"
	"Limelight/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionSvc service.InteractionService
}

func NewInteractionHandler(interactionSvc service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionSvc: interactionSvc,
	}
}

// GetInteractions 按状态查询互动列表，默认查待回复的
func (s *InteractionHandler) GetInteractions(c *gin.Context) {
	var query dto.InteractionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	items, err := s.interactionSvc.ListInteractions(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// TriggerReplySweep 手动触发一轮自动回复扫描
func (s *InteractionHandler) TriggerReplySweep(c *gin.Context) {
	result := s.interactionSvc.ReplyPending(c.Request.Context())
	response.Success(c, result)
}

// RequeueFailed 把发送失败的互动拨回待回复队列
func (s *InteractionHandler) RequeueFailed(c *gin.Context) {
	result, err := s.interactionSvc.RequeueFailed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
