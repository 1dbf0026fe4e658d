package similarity

import (
	"sort"

	"autohub-go/internal/model"
)

// 排序的默认参数。
const (
	DefaultMaxResults = 3
	DefaultMinScore   = 50
)

// Match 是一条带相似度分值的候选车源。
// IncludeScores 未开启时分值会被清零，序列化后不会出现 similarityScore 字段。
type Match struct {
	model.Listing
	SimilarityScore int `json:"similarityScore,omitempty"`
}

// Options 控制 Rank 的行为。MaxResults/MinScore 为零值时采用默认值。
type Options struct {
	MaxResults       int
	MinScore         int
	ExcludeIDs       []string
	PreferSameDealer bool
	IncludeScores    bool
}

// Rank 以 main 为基准对候选集打分、过滤并排序。
//   - 打分前剔除 main 自身的 ListingID、ExcludeIDs 中的 ID 以及没有 ID 的记录；
//   - 只保留分值 >= MinScore 的候选；
//   - PreferSameDealer 开启时，与 main 同 BusinessName 的候选整组排在前面；
//     组内按分值降序，分值相同按输入顺序（稳定排序）；
//   - 截断到 MaxResults 条。
//
// 纯函数，无副作用；候选集为空时返回空切片。
func Rank(main model.Listing, candidates []model.Listing, opts Options) []Match {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	excluded := make(map[string]struct{}, len(opts.ExcludeIDs)+1)
	if main.ListingID != "" {
		excluded[main.ListingID] = struct{}{}
	}
	for _, id := range opts.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if c.ListingID == "" {
			continue
		}
		if _, skip := excluded[c.ListingID]; skip {
			continue
		}
		score := Score(main, c)
		if score < minScore {
			continue
		}
		matches = append(matches, Match{Listing: c, SimilarityScore: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if opts.PreferSameDealer {
			si := sameDealer(main, matches[i].Listing)
			sj := sameDealer(main, matches[j].Listing)
			if si != sj {
				return si
			}
		}
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	if !opts.IncludeScores {
		for i := range matches {
			matches[i].SimilarityScore = 0
		}
	}

	return matches
}

// sameDealer 判断候选是否与 main 归属同一家经销商。
func sameDealer(main, candidate model.Listing) bool {
	return main.BusinessName != "" && main.BusinessName == candidate.BusinessName
}
