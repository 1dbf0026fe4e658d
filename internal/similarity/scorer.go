// Package similarity 实现了车源之间的相似度打分、推荐排序与批量计算。
package similarity

import (
	"math"
	"strings"

	"autohub-go/internal/model"
)

// 各因子的分值。多因子加分制：因子之间相互独立，命中即加分，缺失字段跳过不扣分。
const (
	pointsCategory     = 100
	pointsMake         = 60
	pointsModel        = 40
	pointsFuelType     = 30
	pointsTransmission = 25
	pointsCity         = 20
	pointsSellerType   = 10
	pointsCondition    = 10
	pointsBodyType     = 15
	pointsColor        = 5
)

// 价格相对差分档（以两者中较大的价格为分母，保证打分对称）。
var priceTiers = []struct {
	maxDiff float64
	points  int
}{
	{0.10, 80},
	{0.20, 60},
	{0.30, 40},
	{0.50, 20},
}

// 年份差分档。
var yearTiers = []struct {
	maxDiff int
	points  int
}{
	{0, 40},
	{1, 30},
	{2, 20},
	{3, 10},
}

// 里程相对差分档（以两者中较大的里程为分母，保证打分对称）。
var mileageTiers = []struct {
	maxDiff float64
	points  int
}{
	{0.20, 15},
	{0.30, 10},
	{0.50, 5},
}

// Score 计算两条车源记录之间的相似度分值（非负整数）。
// 任一侧缺失/为零/为空的字段直接跳过对应因子，不参与打分。
func Score(main, candidate model.Listing) int {
	score := 0

	if exactMatch(main.Category, candidate.Category) {
		score += pointsCategory
	}

	// 价格：双方都大于 0 时按相对差取首个命中的档位
	if main.Price > 0 && candidate.Price > 0 {
		diff := math.Abs(main.Price-candidate.Price) / math.Max(main.Price, candidate.Price)
		for _, tier := range priceTiers {
			if diff <= tier.maxDiff {
				score += tier.points
				break
			}
		}
	}

	if foldMatch(main.Make, candidate.Make) {
		score += pointsMake
	}
	if foldMatch(main.Model, candidate.Model) {
		score += pointsModel
	}

	// 年份：双方都有值时按绝对差取首个命中的档位
	if main.Year != 0 && candidate.Year != 0 {
		diff := main.Year - candidate.Year
		if diff < 0 {
			diff = -diff
		}
		for _, tier := range yearTiers {
			if diff <= tier.maxDiff {
				score += tier.points
				break
			}
		}
	}

	if exactMatch(main.FuelType, candidate.FuelType) {
		score += pointsFuelType
	}
	if exactMatch(main.Transmission, candidate.Transmission) {
		score += pointsTransmission
	}
	if foldMatch(main.City, candidate.City) {
		score += pointsCity
	}

	// 里程：双方都大于 0 时按相对差取首个命中的档位
	if main.Mileage > 0 && candidate.Mileage > 0 {
		diff := math.Abs(main.Mileage-candidate.Mileage) / math.Max(main.Mileage, candidate.Mileage)
		for _, tier := range mileageTiers {
			if diff <= tier.maxDiff {
				score += tier.points
				break
			}
		}
	}

	if exactMatch(main.SellerType, candidate.SellerType) {
		score += pointsSellerType
	}
	if exactMatch(main.Condition, candidate.Condition) {
		score += pointsCondition
	}
	if exactMatch(main.BodyType, candidate.BodyType) {
		score += pointsBodyType
	}
	if exactMatch(main.Color, candidate.Color) {
		score += pointsColor
	}

	return score
}

// exactMatch 要求双方非空且完全一致。
func exactMatch(a, b string) bool {
	return a != "" && b != "" && a == b
}

// foldMatch 要求双方非空且忽略大小写一致。
func foldMatch(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}
