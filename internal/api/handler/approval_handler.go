package handler

import (
	"Limelight/internal/api/dto"
	"Limelight/internal/pkg/response"
	"Limelight/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalSvc service.ApprovalService
	publishSvc  service.PublishService
}

func NewApprovalHandler(approvalSvc service.ApprovalService, publishSvc service.PublishService) *ApprovalHandler {
	return &ApprovalHandler{
		approvalSvc: approvalSvc,
		publishSvc:  publishSvc,
	}
}

// ApprovePost 审批通过帖子，通过后当场尝试发布
func (s *ApprovalHandler) ApprovePost(c *gin.Context) {
	postID := c.Param("post_id")
	if postID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	actor := req.ApprovedBy
	if actor == "" {
		actor = c.GetString("operator")
	}

	result, err := s.approvalSvc.Approve(c.Request.Context(), postID, actor, req.ScheduledTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RejectPost 驳回帖子，原因必填
func (s *ApprovalHandler) RejectPost(c *gin.Context) {
	postID := c.Param("post_id")
	if postID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrReasonRequired)
		return
	}

	actor := req.RejectedBy
	if actor == "" {
		actor = c.GetString("operator")
	}

	post, err := s.approvalSvc.Reject(c.Request.Context(), postID, actor, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// EditPost 编辑帖子内容并一步审批通过
func (s *ApprovalHandler) EditPost(c *gin.Context) {
	postID := c.Param("post_id")
	if postID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	actor := req.EditedBy
	if actor == "" {
		actor = c.GetString("operator")
	}

	result, err := s.approvalSvc.Edit(c.Request.Context(), postID, actor, req.Updates)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetApprovalHistory 获取帖子的审批与编辑历史
func (s *ApprovalHandler) GetApprovalHistory(c *gin.Context) {
	postID := c.Param("post_id")
	if postID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	history, err := s.approvalSvc.GetApprovalHistory(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}

// GetPendingPosts 待审帖子列表
func (s *ApprovalHandler) GetPendingPosts(c *gin.Context) {
	posts, err := s.approvalSvc.GetPendingPosts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// GetApprovedPosts 已审批待发布列表，可选 before 过滤到期帖子
func (s *ApprovalHandler) GetApprovedPosts(c *gin.Context) {
	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		before = &parsed
	}

	posts, err := s.approvalSvc.GetApprovedPosts(c.Request.Context(), before)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPostStatistics 各状态帖子计数
func (s *ApprovalHandler) GetPostStatistics(c *gin.Context) {
	stats, err := s.approvalSvc.GetPostStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// TriggerPublishSweep 手动触发一轮发布扫描
func (s *ApprovalHandler) TriggerPublishSweep(c *gin.Context) {
	result, err := s.publishSvc.PublishDue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
