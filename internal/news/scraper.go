package news

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"sapience-trading-bot/internal/logger"
)

// Headline is a scraped news headline used as prompt context.
type Headline struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// Source defines a news search source
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // contains {query}
	Selectors  Selectors
}

// Selectors defines CSS selectors for extracting headline data
type Selectors struct {
	Container string
	Title     string
	URL       string
}

// Scraper fetches recent headlines relevant to a market question.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "BingNews",
			BaseURL:    "https://www.bing.com",
			SearchPath: "/news/search?q={query}",
			Selectors: Selectors{
				Container: "div.news-card",
				Title:     "a.title",
				URL:       "a.title",
			},
		},
		{
			Name:       "YahooNews",
			BaseURL:    "https://news.search.yahoo.com",
			SearchPath: "/search?p={query}",
			Selectors: Selectors{
				Container: "div.NewsArticle",
				Title:     "h4 a",
				URL:       "h4 a",
			},
		},
	}
}

// Scrape collects up to maxHeadlines headlines across all sources for the
// given question. Source failures are logged and skipped.
func (s *Scraper) Scrape(ctx context.Context, question string, maxHeadlines int) ([]Headline, error) {
	query := searchQuery(question)
	logger.Info(ctx, "Scraping headlines", "query", query, "sources", len(s.sources))

	perSource := maxHeadlines / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	all := []Headline{}
	for _, src := range s.sources {
		headlines, err := s.scrapeSource(ctx, src, query, perSource)
		if err != nil {
			logger.Warn(ctx, "Headline source failed", "source", src.Name, "error", err)
			continue
		}
		all = append(all, headlines...)
		if len(all) >= maxHeadlines {
			all = all[:maxHeadlines]
			break
		}
	}

	logger.Info(ctx, "Headlines scraped", "count", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source, query string, limit int) ([]Headline, error) {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"),
	)
	c.SetRequestTimeout(s.timeout)

	headlines := []Headline{}
	c.OnHTML(src.Selectors.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= limit {
			return
		}
		title := cleanFragment(e.ChildText(src.Selectors.Title))
		link := e.ChildAttr(src.Selectors.URL, "href")
		if title == "" {
			return
		}
		headlines = append(headlines, Headline{
			Source: src.Name,
			Title:  title,
			URL:    e.Request.AbsoluteURL(link),
		})
	})

	searchURL := src.BaseURL + strings.Replace(src.SearchPath, "{query}", url.QueryEscape(query), 1)
	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()
	return headlines, nil
}

// searchQuery reduces a market question to search terms: punctuation stripped,
// short filler words dropped.
func searchQuery(question string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			return r
		default:
			return ' '
		}
	}, question)

	terms := []string{}
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 && !isDigits(w) {
			continue
		}
		terms = append(terms, w)
	}
	return strings.Join(terms, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// cleanFragment strips any residual markup from a scraped text fragment.
func cleanFragment(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
