// Package service 提供了搜索相关的业务逻辑。
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"mgit-community-go/internal/model"
	"mgit-community-go/pkg/apperr"
	"mgit-community-go/pkg/log"
)

// DiscussionDocument 是写入搜索索引的讨论文档。
type DiscussionDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	GuestName string    `json:"guestName"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchService 接口定义了讨论帖的全文搜索操作。
type SearchService interface {
	IndexDiscussion(discussion *model.Discussion) error
	Search(ctx context.Context, query string, limit int) ([]DiscussionDocument, error)
}

type searchService struct {
	esClient  *elasticsearch.Client
	indexName string
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(esClient *elasticsearch.Client, indexName string) SearchService {
	return &searchService{esClient: esClient, indexName: indexName}
}

// IndexDiscussion 把讨论帖写入搜索索引，以讨论 ID 作为文档 ID。
func (s *searchService) IndexDiscussion(discussion *model.Discussion) error {
	doc := DiscussionDocument{
		ID:        discussion.ID,
		Title:     discussion.Title,
		Content:   discussion.Content,
		Category:  discussion.Category,
		GuestName: discussion.GuestName,
		CreatedAt: discussion.CreatedAt,
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      s.indexName,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(docBytes),
	}
	res, err := req.Do(context.Background(), s.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("索引讨论文档失败: %s", res.String())
	}
	return nil
}

// Search 对标题与正文执行全文检索，返回至多 limit 条命中。
func (s *searchService) Search(ctx context.Context, query string, limit int) ([]DiscussionDocument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.New(apperr.ValidationFailed, "搜索关键词不能为空")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	esQuery := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "content"},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, err
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.indexName),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "搜索请求失败", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		log.Errorf("Elasticsearch 返回错误, status: %s, body: %s", res.Status(), string(bodyBytes))
		return nil, apperr.New(apperr.PersistenceUnavailable, "搜索服务返回错误")
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source DiscussionDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析搜索响应失败: %w", err)
	}

	results := make([]DiscussionDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}
