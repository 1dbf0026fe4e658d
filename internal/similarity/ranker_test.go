package similarity

import (
	"encoding/json"
	"strings"
	"testing"

	"autohub-go/internal/model"
)

func suvListing(id string, price float64, businessName string) model.Listing {
	return model.Listing{
		ListingID:    id,
		Category:     "SUV",
		Price:        price,
		Make:         "Toyota",
		Model:        "RAV4",
		Year:         2020,
		BusinessName: businessName,
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	main := suvListing("main", 300000, "")

	got := Rank(main, nil, Options{})
	if len(got) != 0 {
		t.Fatalf("Rank(main, nil) 返回了 %d 条结果, want 0", len(got))
	}
	got = Rank(main, []model.Listing{}, Options{})
	if len(got) != 0 {
		t.Fatalf("Rank(main, []) 返回了 %d 条结果, want 0", len(got))
	}
}

func TestRank_ExcludesSelfAndExcludeIDs(t *testing.T) {
	main := suvListing("main", 300000, "")
	candidates := []model.Listing{
		suvListing("main", 300000, ""), // 候选集中混入了 main 自己
		suvListing("c1", 295000, ""),
		suvListing("c2", 290000, ""),
		{Category: "SUV", Price: 300000}, // 没有 ID，应被跳过
	}

	got := Rank(main, candidates, Options{ExcludeIDs: []string{"c2"}})
	for _, m := range got {
		if m.ListingID == "main" {
			t.Error("结果中不应包含 main 自身")
		}
		if m.ListingID == "c2" {
			t.Error("结果中不应包含 ExcludeIDs 指定的 ID")
		}
		if m.ListingID == "" {
			t.Error("结果中不应包含没有 ID 的记录")
		}
	}
	if len(got) != 1 || got[0].ListingID != "c1" {
		t.Fatalf("got %+v, want 仅 c1", got)
	}
}

func TestRank_MinScoreAndTruncation(t *testing.T) {
	main := suvListing("main", 300000, "")
	candidates := []model.Listing{
		suvListing("c1", 295000, ""),
		suvListing("c2", 290000, ""),
		suvListing("c3", 285000, ""),
		suvListing("c4", 280000, ""),
	}

	if got := Rank(main, candidates, Options{MinScore: 1000}); len(got) != 0 {
		t.Errorf("无法达到的 MinScore 应返回空列表, got %d 条", len(got))
	}

	got := Rank(main, candidates, Options{})
	if len(got) != DefaultMaxResults {
		t.Errorf("默认应截断到 %d 条, got %d", DefaultMaxResults, len(got))
	}

	got = Rank(main, candidates, Options{MaxResults: 2})
	if len(got) != 2 {
		t.Errorf("MaxResults=2 时应返回 2 条, got %d", len(got))
	}
}

func TestRank_DescendingScoreStableOnTies(t *testing.T) {
	main := suvListing("main", 300000, "")
	candidates := []model.Listing{
		suvListing("far", 200000, ""),   // 价格差 33%，命中 20 分档
		suvListing("tieA", 265000, ""),  // 价格差约 12%，与 tieB 同分
		suvListing("tieB", 335000, ""),  //
		suvListing("exact", 300000, ""), // 价格完全一致，分值最高
	}

	got := Rank(main, candidates, Options{MaxResults: 10, MinScore: 1, IncludeScores: true})
	if len(got) != 4 {
		t.Fatalf("got %d 条结果, want 4", len(got))
	}
	if got[0].ListingID != "exact" {
		t.Errorf("首位应为最高分 exact, got %s", got[0].ListingID)
	}
	// 同分时保持输入顺序
	if got[1].ListingID != "tieA" || got[2].ListingID != "tieB" {
		t.Errorf("同分候选应保持输入顺序 tieA, tieB, got %s, %s", got[1].ListingID, got[2].ListingID)
	}
	if got[3].ListingID != "far" {
		t.Errorf("末位应为最低分 far, got %s", got[3].ListingID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].SimilarityScore > got[i-1].SimilarityScore {
			t.Errorf("分值未按降序排列: %d 在 %d 之后", got[i].SimilarityScore, got[i-1].SimilarityScore)
		}
	}
}

func TestRank_PreferSameDealerGroupsFirst(t *testing.T) {
	main := suvListing("main", 300000, "Auto Palace")
	candidates := []model.Listing{
		suvListing("other-high", 300000, "City Cars"), // 分值最高但非同店
		suvListing("same-low", 260000, "Auto Palace"), // 同店但分值较低
	}

	got := Rank(main, candidates, Options{PreferSameDealer: true, MaxResults: 10})
	if len(got) != 2 {
		t.Fatalf("got %d 条结果, want 2", len(got))
	}
	if got[0].ListingID != "same-low" {
		t.Errorf("同店候选应排在最前, got %s", got[0].ListingID)
	}

	// 不开启时按纯分值降序
	got = Rank(main, candidates, Options{PreferSameDealer: false, MaxResults: 10})
	if got[0].ListingID != "other-high" {
		t.Errorf("未开启 PreferSameDealer 时应按分值排序, got %s", got[0].ListingID)
	}
}

func TestRank_ScoreVisibility(t *testing.T) {
	main := suvListing("main", 300000, "")
	candidates := []model.Listing{suvListing("c1", 295000, "")}

	// 默认不携带分值：序列化后不应出现 similarityScore 字段
	got := Rank(main, candidates, Options{})
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "similarityScore") {
		t.Errorf("IncludeScores=false 时输出不应包含 similarityScore: %s", b)
	}

	got = Rank(main, candidates, Options{IncludeScores: true})
	if got[0].SimilarityScore <= 0 {
		t.Errorf("IncludeScores=true 时应携带正分值, got %d", got[0].SimilarityScore)
	}
}
