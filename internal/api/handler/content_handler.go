package handler

import (
	"Limelight/internal/api/dto"
	"Limelight/internal/pkg/response"
	"Limelight/internal/service"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentSvc service.ContentService
	trendSvc   service.TrendService
}

func NewContentHandler(contentSvc service.ContentService, trendSvc service.TrendService) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
		trendSvc:   trendSvc,
	}
}

// GenerateContent 手动触发一条内容生成。
// 给了 topic 就按指定话题生成，否则消费趋势池里分数最高的话题。
func (s *ContentHandler) GenerateContent(c *gin.Context) {
	var req dto.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var (
		post *dto.PostDTO
		err  error
	)
	if req.Topic != "" {
		post, err = s.contentSvc.GenerateForTopic(c.Request.Context(), req.Topic, req.Summary)
	} else {
		post, err = s.contentSvc.GenerateFromTrend(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// GetTrends 最近采集到的趋势列表
func (s *ContentHandler) GetTrends(c *gin.Context) {
	var query dto.TrendListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	trends, err := s.trendSvc.ListTrends(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trends)
}

// RefreshTrends 手动触发一轮趋势采集
func (s *ContentHandler) RefreshTrends(c *gin.Context) {
	inserted, err := s.trendSvc.RefreshTrends(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"inserted": inserted})
}
