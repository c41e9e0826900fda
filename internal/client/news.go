package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"newsreader/internal/dto"
	"newsreader/pkg/pagination"
)

// NewsQuery is the /news search filter. Page carries the opaque nextPage
// token from a previous result; load-more flows pass it back and append.
type NewsQuery struct {
	Category string
	Country  string
	Lang     string
	Query    string
	Page     string
	Max      int
}

func (q NewsQuery) values(defaultMax int) url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Country != "" {
		v.Set("country", q.Country)
	}
	if q.Lang != "" {
		v.Set("lang", q.Lang)
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Page != "" {
		v.Set("page", q.Page)
	}
	max := q.Max
	if max <= 0 {
		max = defaultMax
	}
	v.Set("max", strconv.Itoa(max))
	return v
}

// News fetches one page of articles. An identical query already in flight
// is rejected with ErrRequestInFlight rather than issued twice.
func (c *Client) News(ctx context.Context, q NewsQuery) (pagination.PageResult[dto.Article], error) {
	query := q.values(c.pageSize)
	sig := "GET /news?" + query.Encode()

	if !c.inflight.begin(sig) {
		return pagination.PageResult[dto.Article]{}, ErrRequestInFlight
	}
	defer c.inflight.end(sig)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/news", query, nil, &raw); err != nil {
		return pagination.PageResult[dto.Article]{}, fmt.Errorf("fetch news: %w", err)
	}

	return decodeNewsPayload(raw), nil
}

// decodeNewsPayload tolerates the two payload shapes the backend has served
// over time: articles under "results" or "articles", snake_case or
// camelCase fields.
func decodeNewsPayload(raw []byte) pagination.PageResult[dto.Article] {
	doc := gjson.ParseBytes(raw)

	list := doc.Get("results")
	if !list.Exists() {
		list = doc.Get("articles")
	}

	var items []dto.Article
	list.ForEach(func(_, item gjson.Result) bool {
		items = append(items, decodeArticle(item))
		return true
	})

	return pagination.PageResult[dto.Article]{
		Items:        items,
		NextPage:     first(doc, "nextPage", "next_page").String(),
		TotalResults: int(first(doc, "totalResults", "total_results").Int()),
	}
}

func decodeArticle(item gjson.Result) dto.Article {
	return dto.Article{
		ID:          first(item, "id", "article_id").String(),
		Title:       item.Get("title").String(),
		Description: item.Get("description").String(),
		Link:        first(item, "link", "url").String(),
		ImageURL:    first(item, "imageUrl", "image_url").String(),
		PublishedAt: parseTime(first(item, "publishedAt", "pubDate").String()),
		SourceName:  first(item, "sourceName", "source_name", "source_id").String(),
		Category:    firstScalar(item, "category"),
		Country:     firstScalar(item, "country"),
	}
}

func first(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// firstScalar flattens fields that arrive either as a string or as a
// single-element array.
func firstScalar(doc gjson.Result, path string) string {
	r := doc.Get(path)
	if r.IsArray() {
		arr := r.Array()
		if len(arr) == 0 {
			return ""
		}
		return arr[0].String()
	}
	return r.String()
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
