package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"autohub-go/internal/model"
	"autohub-go/internal/similarity"
)

// mockListingRepo 是 ListingRepository 的内存实现。
type mockListingRepo struct {
	listings []model.Listing
}

func (m *mockListingRepo) Upsert(*model.Listing) error { return nil }

func (m *mockListingRepo) FindByListingID(listingID string) (*model.Listing, error) {
	for i := range m.listings {
		if m.listings[i].ListingID == listingID {
			l := m.listings[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockListingRepo) FindAll() ([]model.Listing, error) {
	return append([]model.Listing(nil), m.listings...), nil
}

func (m *mockListingRepo) FindWithPagination(offset, limit int) ([]model.Listing, int64, error) {
	return append([]model.Listing(nil), m.listings...), int64(len(m.listings)), nil
}

func (m *mockListingRepo) FindBatchByListingIDs(listingIDs []string) ([]model.Listing, error) {
	var out []model.Listing
	for _, id := range listingIDs {
		for i := range m.listings {
			if m.listings[i].ListingID == id {
				out = append(out, m.listings[i])
			}
		}
	}
	return out, nil
}

func (m *mockListingRepo) Delete(string) error { return nil }

// mockSimilarCache 在内存里记录写入的缓存内容。
// Set 和真正的 Redis 实现一样在调用时固化数据，后续对原切片的修改不影响已存内容。
type mockSimilarCache struct {
	stored map[string][]similarity.Match
	hits   map[string][]similarity.Match
}

func newMockSimilarCache() *mockSimilarCache {
	return &mockSimilarCache{
		stored: make(map[string][]similarity.Match),
		hits:   make(map[string][]similarity.Match),
	}
}

func (m *mockSimilarCache) Get(_ context.Context, listingID string) ([]similarity.Match, bool, error) {
	v, ok := m.hits[listingID]
	return v, ok, nil
}

func (m *mockSimilarCache) Set(_ context.Context, listingID string, matches []similarity.Match, _ time.Duration) error {
	cp := make([]similarity.Match, len(matches))
	copy(cp, matches)
	m.stored[listingID] = cp
	return nil
}

func (m *mockSimilarCache) SetBatch(ctx context.Context, results map[string][]similarity.Match, ttl time.Duration) error {
	for id, matches := range results {
		if err := m.Set(ctx, id, matches, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSimilarCache) Invalidate(_ context.Context, listingID string) error {
	delete(m.stored, listingID)
	return nil
}

func storedImageListing(id, key string) model.Listing {
	return model.Listing{
		ListingID: id,
		Category:  "SUV",
		Price:     300000,
		Make:      "Toyota",
		Model:     "RAV4",
		Year:      2020,
		Image:     model.ImageRef{Key: key},
	}
}

// 缓存里必须是未解析的对象 key：预签名链接有固定有效期，
// 如果连同结果一起缓存，TTL 配置大于有效期时会发出已失效的链接。
func TestGetSimilar_CacheKeepsRawImageKeys(t *testing.T) {
	repo := &mockListingRepo{listings: []model.Listing{
		storedImageListing("L1", "l1/front.jpg"),
		storedImageListing("L2", "l2/front.jpg"),
	}}
	cache := newMockSimilarCache()
	svc := NewListingService(repo, cache)

	if _, err := svc.GetSimilar(context.Background(), "L1", similarity.Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, ok := cache.stored["L1"]
	if !ok {
		t.Fatal("默认参数的结果应写入缓存")
	}
	if len(stored) != 1 || stored[0].ListingID != "L2" {
		t.Fatalf("缓存内容不符: %+v", stored)
	}
	if stored[0].Image.Key != "l2/front.jpg" || stored[0].Image.URL != "" {
		t.Errorf("缓存条目应保留原始对象 key 且不含预签名链接, got %+v", stored[0].Image)
	}
}

func TestGetSimilar_CustomOptionsSkipCache(t *testing.T) {
	repo := &mockListingRepo{listings: []model.Listing{
		storedImageListing("L1", ""),
		storedImageListing("L2", ""),
	}}
	cache := newMockSimilarCache()
	// 缓存里放一条脏数据：定制参数的请求不应读到它
	cache.hits["L1"] = []similarity.Match{{Listing: model.Listing{ListingID: "stale"}}}
	svc := NewListingService(repo, cache)

	got, err := svc.GetSimilar(context.Background(), "L1", similarity.Options{MinScore: 10, IncludeScores: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ListingID != "L2" {
		t.Fatalf("定制参数应现算, got %+v", got)
	}
	if len(cache.stored) != 0 {
		t.Errorf("定制参数的结果不应写入缓存, stored: %+v", cache.stored)
	}
}

func TestGetSimilar_CacheHitResolvesPerRead(t *testing.T) {
	repo := &mockListingRepo{}
	cache := newMockSimilarCache()
	cache.hits["L1"] = []similarity.Match{
		{Listing: storedImageListing("L2", "l2/front.jpg")},
	}
	svc := NewListingService(repo, cache)

	// 对象存储不可用时解析失败但不中断响应，key 原样保留
	got, err := svc.GetSimilar(context.Background(), "L1", similarity.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ListingID != "L2" {
		t.Fatalf("应返回缓存的结果, got %+v", got)
	}
	if got[0].Image.Key != "l2/front.jpg" {
		t.Errorf("解析失败时应保留对象 key, got %+v", got[0].Image)
	}
}
