package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"marketlens/backend-go/internal/config"
	"marketlens/backend-go/internal/models"
)

type NewsClient struct {
	cfg     config.Config
	fetcher *Fetcher
	cache   Cache
	sf      singleflight.Group
	policy  Policy
}

func NewNewsClient(cfg config.Config, cache Cache, clock clockwork.Clock) *NewsClient {
	return &NewsClient{
		cfg:     cfg,
		fetcher: NewFetcher("news", cfg.RequestTimeout, clock),
		cache:   cache,
		policy: Policy{
			MaxRetries: cfg.FetchMaxRetries,
			RetryDelay: cfg.FetchRetryDelay,
			Backoff:    BackoffFixed,
		},
	}
}

type providerNews struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (c *NewsClient) Search(ctx context.Context, query string, page, pageSize int) (models.NewsPageResponse, bool, error) {
	query = strings.TrimSpace(query)
	if c.cfg.NewsAPIKey == "" {
		return models.NewsPageResponse{}, false, errors.Wrap(ErrMissingCredential, "news provider")
	}
	key := fmt.Sprintf("news:v1:%s:%d:%d", strings.ToLower(query), page, pageSize)
	return FillThrough(ctx, c.cache, &c.sf, key, c.cfg.CacheTTLNews, func() (models.NewsPageResponse, error) {
		v := url.Values{}
		v.Set("q", query)
		v.Set("page", strconv.Itoa(page))
		v.Set("pageSize", strconv.Itoa(pageSize))
		v.Set("sortBy", "publishedAt")
		v.Set("apiKey", c.cfg.NewsAPIKey)
		endpoint := fmt.Sprintf("%s/v2/everything?%s", strings.TrimRight(c.cfg.NewsBaseURL, "/"), v.Encode())

		var raw providerNews
		if err := c.fetcher.GetJSON(ctx, endpoint, c.policy, &raw); err != nil {
			return models.NewsPageResponse{}, err
		}
		articles := make([]models.NewsArticle, 0, len(raw.Articles))
		for _, a := range raw.Articles {
			articles = append(articles, models.NewsArticle{
				Title:          a.Title,
				Description:    a.Description,
				URL:            a.URL,
				Source:         a.Source.Name,
				PublishedAtISO: a.PublishedAt,
			})
		}
		return models.NewsPageResponse{
			TsISO:    time.Now().UTC().Format(time.RFC3339),
			Query:    query,
			Page:     page,
			PageSize: pageSize,
			Total:    raw.TotalResults,
			Articles: articles,
		}, nil
	})
}
