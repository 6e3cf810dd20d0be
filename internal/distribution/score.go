package distribution

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// DefaultRecommendationLimit is the number of staff suggested per grievance.
const DefaultRecommendationLimit = 3

const (
	baseScore           = 50
	lightLoadBonus      = 20
	moderateLoadBonus   = 10
	specializationBonus = 25
	maxScore            = 100
	minScore            = 0
)

var roleBonus = map[domain.StaffRole]int{
	domain.StaffRoleSuperAdmin:       15,
	domain.StaffRoleOperationsAdmin:  10,
	domain.StaffRoleTransportManager: 8,
}

// MatchScore rates how well a staff member suits a grievance, from 0 to 100.
type MatchScore struct {
	StaffID     string `json:"staff_id"`
	GrievanceID string `json:"grievance_id"`
	Score       int    `json:"score"`
	Reason      string `json:"reason"`
}

// Score computes the suitability of staff for g. It never fails.
func Score(staff domain.StaffMember, g domain.Grievance) MatchScore {
	score := baseScore
	var reasons []string

	if staff.MaxCapacity > 0 {
		pct := staff.WorkloadPercentage()
		switch {
		case pct < 50:
			score += lightLoadBonus
			reasons = append(reasons, fmt.Sprintf("light workload (%.0f%%)", pct))
		case pct < 70:
			score += moderateLoadBonus
			reasons = append(reasons, fmt.Sprintf("moderate workload (%.0f%%)", pct))
		}
	}
	if bonus, ok := roleBonus[staff.Role]; ok {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("role %s", staff.Role))
	}
	if g.Category != "" && staff.HasSpecialization(g.Category) {
		score += specializationBonus
		reasons = append(reasons, fmt.Sprintf("specialised in %s", g.Category))
	}

	score = min(maxScore, max(minScore, score))
	reason := "base score"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}
	return MatchScore{
		StaffID:     staff.ID,
		GrievanceID: g.ID,
		Score:       score,
		Reason:      reason,
	}
}

// Recommend scores every staff member for g and returns the best limit
// matches, highest first. Equal scores keep roster order. A non-positive
// limit uses DefaultRecommendationLimit.
func Recommend(staff []domain.StaffMember, g domain.Grievance, limit int) []MatchScore {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	scores := make([]MatchScore, 0, len(staff))
	for _, member := range staff {
		scores = append(scores, Score(member, g))
	}
	slices.SortStableFunc(scores, func(a, b MatchScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}
