package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentIdeaStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"caption\":\"新品上线\",\"hashtags\":[\"launch\"],\"cta\":\"点击了解\",\"media_prompt\":\"product shot\",\"media_type\":\"image\"}\n```"

	idea, err := ParseContentIdea(raw)
	require.NoError(t, err)

	assert.Equal(t, "新品上线", idea.Caption)
	assert.Equal(t, []string{"launch"}, idea.Hashtags)
	assert.Equal(t, "点击了解", idea.CTA)
	assert.Equal(t, "product shot", idea.MediaPrompt)
	assert.Equal(t, "image", idea.MediaType)
}

func TestParseContentIdeaNormalizesFieldDrift(t *testing.T) {
	// 模型有时用 text / call_to_action / image_prompt 命名
	raw := `{"text":"夏日清单","call_to_action":"评论区见","image_prompt":"summer flatlay","hashtags":["summer"]}`

	idea, err := ParseContentIdea(raw)
	require.NoError(t, err)

	assert.Equal(t, "夏日清单", idea.Caption)
	assert.Equal(t, "评论区见", idea.CTA)
	assert.Equal(t, "summer flatlay", idea.MediaPrompt)
	assert.Equal(t, "image", idea.MediaType) // 未指定时默认图片
}

func TestParseContentIdeaComposesFullPost(t *testing.T) {
	raw := `{"caption":"正文","hashtags":["a","b"],"cta":"来看看"}`

	idea, err := ParseContentIdea(raw)
	require.NoError(t, err)

	assert.Equal(t, "正文\n\n#a #b\n\n来看看", idea.FullPost)
}

func TestParseContentIdeaMissingCaption(t *testing.T) {
	_, err := ParseContentIdea(`{"hashtags":["a"]}`)
	assert.Error(t, err)
}

func TestParseContentIdeaInvalidJSON(t *testing.T) {
	_, err := ParseContentIdea("not json at all")
	assert.Error(t, err)
}

func TestComposeFullPost(t *testing.T) {
	// 已带 # 的标签不重复加前缀，空白标签被丢弃
	full := ComposeFullPost("正文", []string{"#tech", " ", "ai"}, "")
	assert.Equal(t, "正文\n\n#tech #ai", full)

	// 没有标签和 CTA 时只剩正文
	assert.Equal(t, "正文", ComposeFullPost("正文", nil, ""))
}

func TestFallbackReplyByCategory(t *testing.T) {
	assert.NotEmpty(t, FallbackReply("pricing"))
	assert.NotEmpty(t, FallbackReply("unknown-category"))
	assert.NotEqual(t, FallbackReply("pricing"), "")
}
