package similarity

import "autohub-go/internal/model"

// BatchOptions 控制 BatchRank 的行为。
type BatchOptions struct {
	MaxResults    int
	MinScore      int
	IncludeScores bool
	// EnableCaching 开启后，同一次调用内重复出现的 ListingID 直接复用
	// 已计算的结果。缓存仅在本次调用内有效，不跨调用保留。
	EnableCaching bool
}

// BatchRank 对整个集合里的每条车源各算一份推荐列表：
// 以该条为基准，其余记录作为候选集（自身由 Rank 剔除）。
// 没有 ListingID 的记录被静默跳过，不会出现在结果里。
// 结果只取决于集合内容，与遍历顺序无关。
func BatchRank(items []model.Listing, opts BatchOptions) map[string][]Match {
	result := make(map[string][]Match, len(items))

	var cache map[string][]Match
	if opts.EnableCaching {
		cache = make(map[string][]Match, len(items))
	}

	rankOpts := Options{
		MaxResults:    opts.MaxResults,
		MinScore:      opts.MinScore,
		IncludeScores: opts.IncludeScores,
	}

	for _, item := range items {
		id := item.ListingID
		if id == "" {
			continue
		}
		if cache != nil {
			if cached, ok := cache[id]; ok {
				result[id] = cached
				continue
			}
		}
		ranked := Rank(item, items, rankOpts)
		if cache != nil {
			cache[id] = ranked
		}
		result[id] = ranked
	}

	return result
}
