package llm

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

// ContentIdea AI 产出的内容创意，所有调用方只接触这一种归一化结构
type ContentIdea struct {
	Caption     string
	Hashtags    []string
	CTA         string
	FullPost    string
	MediaPrompt string
	MediaType   string
	Category    string
}

// rawIdea 模型返回字段命名并不稳定：caption/text、cta/call_to_action 都出现过，
// 在这里一次性抹平，不让差异扩散到调用方
type rawIdea struct {
	Caption      string   `json:"caption"`
	Text         string   `json:"text"`
	Hashtags     []string `json:"hashtags"`
	CTA          string   `json:"cta"`
	CallToAction string   `json:"call_to_action"`
	FullPost     string   `json:"full_post"`
	MediaPrompt  string   `json:"media_prompt"`
	ImagePrompt  string   `json:"image_prompt"`
	MediaType    string   `json:"media_type"`
	Category     string   `json:"category"`
}

// ParseContentIdea 解析并归一化模型返回的创意 JSON
func ParseContentIdea(s string) (*ContentIdea, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var temp rawIdea
	if err := json.Unmarshal([]byte(cleaned), &temp); err != nil {
		return nil, err
	}

	idea := &ContentIdea{
		Caption:     temp.Caption,
		Hashtags:    temp.Hashtags,
		CTA:         temp.CTA,
		FullPost:    temp.FullPost,
		MediaPrompt: temp.MediaPrompt,
		MediaType:   temp.MediaType,
		Category:    temp.Category,
	}
	if idea.Caption == "" {
		idea.Caption = temp.Text
	}
	if idea.CTA == "" {
		idea.CTA = temp.CallToAction
	}
	if idea.MediaPrompt == "" {
		idea.MediaPrompt = temp.ImagePrompt
	}
	if idea.MediaType == "" {
		idea.MediaType = "image"
	}

	if idea.Caption == "" {
		return nil, errors.New("创意缺少caption字段")
	}

	if idea.FullPost == "" {
		idea.FullPost = ComposeFullPost(idea.Caption, idea.Hashtags, idea.CTA)
	}

	return idea, nil
}

// ComposeFullPost 拼接完整文案：正文 + 标签 + CTA
func ComposeFullPost(caption string, hashtags []string, cta string) string {
	parts := []string{caption}

	if len(hashtags) > 0 {
		tags := make([]string, 0, len(hashtags))
		for _, tag := range hashtags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !strings.HasPrefix(tag, "#") {
				tag = "#" + tag
			}
			tags = append(tags, tag)
		}
		if len(tags) > 0 {
			parts = append(parts, strings.Join(tags, " "))
		}
	}

	if cta != "" {
		parts = append(parts, cta)
	}

	return strings.Join(parts, "\n\n")
}
