package dto

import (
	"Limelight/internal/model"
	"time"
)

type ApproveRequest struct {
	ApprovedBy    string     `json:"approvedBy"`
	ScheduledTime *time.Time `json:"scheduledTime"`
}

type RejectRequest struct {
	RejectedBy string `json:"rejectedBy"`
	Reason     string `json:"reason" binding:"required"`
}

type EditRequest struct {
	EditedBy string         `json:"editedBy"`
	Updates  map[string]any `json:"updates" binding:"required"`
}

// ApprovalResultDTO 审批操作的返回体。
// ImmediatePost 表示审批后是否当场发布成功；失败时 PostingError 说明原因，
// 帖子会留给周期扫描重试。
type ApprovalResultDTO struct {
	Post          *PostDTO `json:"post"`
	ImmediatePost bool     `json:"immediatePost"`
	PostingError  string   `json:"postingError,omitempty"`
}

type ApprovalHistoryDTO struct {
	ApprovalHistory []model.ApprovalEntry `json:"approvalHistory"`
	EditHistory     []model.EditEntry     `json:"editHistory"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
}

type PostStatisticsDTO struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Posted   int64 `json:"posted"`
}
