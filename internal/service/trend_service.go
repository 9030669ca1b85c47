package service

import (
	"Limelight/internal/api/config"
	"Limelight/internal/api/dto"
	"Limelight/internal/model"
	"Limelight/internal/pkg/llm"
	"Limelight/internal/pkg/mongo"
	"context"
	log "log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"
	"github.com/jinzhu/copier"
)

const headlinesPerSource = 5

// TrendSummarizer 趋势文章摘要器，生产实现走 LLM
type TrendSummarizer interface {
	Summarize(ctx context.Context, article string) (string, error)
}

type llmTrendSummarizer struct{}

func NewLLMTrendSummarizer() TrendSummarizer {
	return &llmTrendSummarizer{}
}

func (s *llmTrendSummarizer) Summarize(ctx context.Context, article string) (string, error) {
	return llm.SummarizeTrend(ctx, article)
}

type TrendService interface {
	// RefreshTrends 抓取配置的来源页面，补充趋势池，返回新入库条数
	RefreshTrends(ctx context.Context) (int, error)
	ListTrends(ctx context.Context, query *dto.TrendListQuery) ([]*dto.TrendDTO, error)
}

type trendServiceImpl struct {
	trendRepo  mongo.TrendRepo
	summarizer TrendSummarizer
	httpClient *resty.Client
	now        func() time.Time
}

func NewTrendService(trendRepo mongo.TrendRepo, summarizer TrendSummarizer) TrendService {
	return &trendServiceImpl{
		trendRepo:  trendRepo,
		summarizer: summarizer,
		httpClient: resty.New().SetTimeout(20 * time.Second),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *trendServiceImpl) RefreshTrends(ctx context.Context) (int, error) {
	sources := config.Cfg.Trends.Sources
	if len(sources) == 0 {
		log.WarnContext(ctx, "未配置趋势来源，跳过本轮采集")
		return 0, nil
	}

	inserted := 0
	for _, source := range sources {
		headlines, err := s.fetchHeadlines(ctx, source)
		if err != nil {
			// 单个来源失败不影响其余来源
			log.WarnContext(ctx, "趋势来源抓取失败", "source", source, "err", err)
			continue
		}

		for rank, headline := range headlines {
			trend := &model.Trend{
				Topic:     headline.title,
				Source:    source,
				Link:      headline.link,
				Score:     float64((headlinesPerSource - rank) * 10),
				FetchedAt: s.now(),
			}

			// 只为头条做正文摘要，剩下的留标题即可
			if rank == 0 && headline.link != "" {
				trend.Summary = s.summarizeArticle(ctx, headline.link)
			}

			if err := s.trendRepo.Insert(ctx, trend); err != nil {
				log.ErrorContext(ctx, "趋势入库失败", "topic", trend.Topic, "err", err)
				continue
			}
			inserted++
		}
	}

	log.InfoContext(ctx, "趋势采集完成", "sources", len(sources), "inserted", inserted)
	return inserted, nil
}

func (s *trendServiceImpl) ListTrends(ctx context.Context, query *dto.TrendListQuery) ([]*dto.TrendDTO, error) {
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	trends, err := s.trendRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TrendDTO, 0, len(trends))
	for _, trend := range trends {
		var d dto.TrendDTO
		_ = copier.Copy(&d, trend)
		d.ID = trend.ID.Hex()
		out = append(out, &d)
	}
	return out, nil
}

type headline struct {
	title string
	link  string
}

// fetchHeadlines 抓取来源页面并提取标题链接，按页面出现顺序返回
func (s *trendServiceImpl) fetchHeadlines(ctx context.Context, source string) ([]headline, error) {
	resp, err := s.httpClient.R().SetContext(ctx).Get(source)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(source)

	var headlines []headline
	seen := make(map[string]bool)
	doc.Find("h1 a, h2 a, h3 a").Each(func(i int, sel *goquery.Selection) {
		if len(headlines) >= headlinesPerSource {
			return
		}
		title := strings.TrimSpace(sel.Text())
		if title == "" || seen[title] {
			return
		}
		seen[title] = true

		link, _ := sel.Attr("href")
		if base != nil && link != "" {
			if resolved, err := base.Parse(link); err == nil {
				link = resolved.String()
			}
		}
		headlines = append(headlines, headline{title: title, link: link})
	})
	return headlines, nil
}

// summarizeArticle 拉取文章正文做摘要，失败时返回空串不阻断采集
func (s *trendServiceImpl) summarizeArticle(ctx context.Context, link string) string {
	resp, err := s.httpClient.R().SetContext(ctx).Get(link)
	if err != nil {
		log.WarnContext(ctx, "趋势文章抓取失败", "link", link, "err", err)
		return ""
	}

	parsedURL, _ := url.Parse(link)
	article, err := readability.FromReader(strings.NewReader(resp.String()), parsedURL)
	if err != nil {
		log.WarnContext(ctx, "趋势文章正文提取失败", "link", link, "err", err)
		return ""
	}

	summary, err := s.summarizer.Summarize(ctx, article.TextContent)
	if err != nil {
		log.WarnContext(ctx, "趋势摘要生成失败", "link", link, "err", err)
		return ""
	}
	return summary
}
