package catalog

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"skill-coach/internal/domain/recommendation"
)

// Harvester pulls article listings from dev.to tag pages into the catalog.
// Tags map onto skill categories so harvested entries outrank the generic
// seed set for those categories.
type Harvester struct {
	catalog     *Catalog
	baseURL     string
	allowedHost string
	logger      *log.Logger
}

func NewHarvester(cat *Catalog, baseURL string, logger *log.Logger) *Harvester {
	h := &Harvester{catalog: cat, baseURL: strings.TrimSpace(baseURL), logger: logger}
	if h.baseURL == "" {
		h.baseURL = "https://dev.to"
	}
	h.allowedHost = hostFromBaseURL(h.baseURL)
	return h
}

// tagsByCategory lists which dev.to tags feed each skill category.
var tagsByCategory = map[string][]string{
	"programming languages": {"go", "python", "javascript"},
	"databases":             {"database", "sql", "postgres"},
	"infrastructure":        {"devops", "kubernetes", "docker"},
	"web":                   {"webdev", "frontend"},
	"tools":                 {"git", "productivity"},
}

func (h *Harvester) Harvest(ctx context.Context, workers int) error {
	if h == nil || h.catalog == nil {
		return fmt.Errorf("nil harvester/catalog")
	}
	if workers <= 0 {
		workers = 1
	}

	pool := NewWorkerPool(workers, workers*2)
	pool.SetRateLimit(2)
	results := pool.Run(ctx)

	for category, tags := range tagsByCategory {
		for _, tag := range tags {
			category, tag := category, tag
			pool.Submit(func(ctx context.Context) error {
				return h.harvestTag(ctx, category, tag)
			})
		}
	}
	pool.Close()

	var failed int
	for res := range results {
		if res.Err != nil {
			failed++
			if h.logger != nil {
				h.logger.Printf("[Catalog] harvest task failed | err=%v", res.Err)
			}
		}
	}

	if h.logger != nil {
		h.logger.Printf("[Catalog] harvest done | entries=%d failed_tasks=%d", h.catalog.Size(), failed)
	}
	return nil
}

func (h *Harvester) harvestTag(ctx context.Context, category, tag string) error {
	c := colly.NewCollector(
		colly.AllowedDomains(h.allowedHost),
	)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: 300 * time.Millisecond})

	entries := make([]Entry, 0, 16)

	c.OnHTML("a", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		title := strings.TrimSpace(e.Text)
		if href == "" || title == "" || len(title) < 15 {
			return
		}
		// Article links look like /username/slug-1abc.
		parts := strings.Split(strings.Trim(href, "/"), "/")
		if len(parts) != 2 || strings.HasPrefix(parts[0], "t") && len(parts[0]) == 1 {
			return
		}
		if strings.ContainsAny(parts[0], "?#") || strings.ContainsAny(parts[1], "?#") {
			return
		}
		entries = append(entries, Entry{
			Title:            title,
			URL:              strings.TrimRight(h.baseURL, "/") + "/" + strings.Trim(href, "/"),
			Provider:         h.allowedHost,
			ActionType:       recommendation.ActionArticle,
			Category:         category,
			EstimatedMinutes: 20,
		})
	})

	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
	})

	pageURL := strings.TrimRight(h.baseURL, "/") + "/t/" + url.PathEscape(tag)
	if err := c.Visit(pageURL); err != nil {
		return fmt.Errorf("visit %s: %w", pageURL, err)
	}
	c.Wait()

	if len(entries) > 10 {
		entries = entries[:10]
	}
	h.catalog.Add(entries...)
	return nil
}

func hostFromBaseURL(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "dev.to"
	}
	return u.Host
}
