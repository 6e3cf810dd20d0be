package distribution

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/grievance-service/internal/domain"
)

func staffMember(id string, workload, capacity int, specs ...string) domain.StaffMember {
	return domain.StaffMember{
		ID:              id,
		Role:            domain.StaffRoleOperationsAdmin,
		CurrentWorkload: workload,
		MaxCapacity:     capacity,
		Specializations: specs,
		Active:          true,
	}
}

func grievance(id, category string, priority domain.GrievancePriority) domain.Grievance {
	return domain.Grievance{ID: id, Category: category, Priority: priority, Status: domain.GrievanceStatusOpen}
}

func grievances(n int) []domain.Grievance {
	out := make([]domain.Grievance, n)
	priorities := []domain.GrievancePriority{
		domain.GrievancePriorityLow, domain.GrievancePriorityUrgent,
		domain.GrievancePriorityMedium, domain.GrievancePriorityHigh,
	}
	categories := []string{domain.CategoryComplaint, domain.CategoryTechnicalIssue, domain.CategorySuggestion}
	for i := range out {
		out[i] = grievance(fmt.Sprintf("g-%02d", i), categories[i%len(categories)], priorities[i%len(priorities)])
	}
	return out
}

func bucketIDs(result *Result) map[string][]string {
	out := map[string][]string{}
	for staffID, items := range result.Buckets {
		for _, g := range items {
			out[staffID] = append(out[staffID], g.ID)
		}
	}
	return out
}

var allStrategies = []Strategy{StrategyBalanced, StrategyPriorityBased, StrategyCategoryBased}

func TestDistribute_Totality(t *testing.T) {
	staff := []domain.StaffMember{
		staffMember("a", 2, 10, domain.CategoryComplaint),
		staffMember("b", 0, 10, domain.CategoryTechnicalIssue),
		staffMember("c", 9, 10),
		staffMember("d", 12, 10, domain.CategorySuggestion),
	}
	input := grievances(17)

	for _, s := range allStrategies {
		t.Run(string(s), func(t *testing.T) {
			result, err := Distribute(input, staff, s)
			require.NoError(t, err)
			require.Equal(t, s, result.Strategy)
			require.Equal(t, len(input), result.Total())

			seen := map[string]int{}
			for _, items := range result.Buckets {
				for _, g := range items {
					seen[g.ID]++
				}
			}
			require.Len(t, seen, len(input))
			for _, g := range input {
				require.Equal(t, 1, seen[g.ID], "grievance %s must be assigned exactly once", g.ID)
			}

			for i, a := range result.Assignments {
				require.Equal(t, input[i].ID, a.Grievance.ID, "assignments keep input order")
				require.NotEmpty(t, a.StaffID)
				require.NotEmpty(t, a.Reason)
			}
		})
	}
}

func TestDistribute_EmptyInputs(t *testing.T) {
	staff := []domain.StaffMember{staffMember("a", 0, 10)}

	for _, s := range allStrategies {
		t.Run(string(s)+"/no grievances", func(t *testing.T) {
			result, err := Distribute(nil, staff, s)
			require.NoError(t, err)
			require.Empty(t, result.Buckets)
			require.Zero(t, result.Total())
		})
		t.Run(string(s)+"/no staff", func(t *testing.T) {
			result, err := Distribute(grievances(3), nil, s)
			require.ErrorIs(t, err, ErrNoEligibleStaff)
			require.NotNil(t, result)
			require.Empty(t, result.Buckets)
		})
	}
}

func TestDistribute_UnknownStrategy(t *testing.T) {
	_, err := Distribute(grievances(1), []domain.StaffMember{staffMember("a", 0, 10)}, Strategy("lottery"))
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestDistribute_DoesNotMutateInputs(t *testing.T) {
	staff := []domain.StaffMember{
		staffMember("a", 8, 10),
		staffMember("b", 1, 10),
	}
	input := grievances(6)
	staffBefore := append([]domain.StaffMember(nil), staff...)
	inputBefore := append([]domain.Grievance(nil), input...)

	for _, s := range allStrategies {
		_, err := Distribute(input, staff, s)
		require.NoError(t, err)
	}

	if diff := cmp.Diff(staffBefore, staff); diff != "" {
		t.Errorf("staff mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(inputBefore, input); diff != "" {
		t.Errorf("grievances mutated (-before +after):\n%s", diff)
	}
}

func TestBalanced(t *testing.T) {
	t.Run("distributes evenly across idle staff", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("a", 0, 10),
			staffMember("b", 0, 10),
			staffMember("c", 0, 10),
		}

		result, err := Distribute(grievances(9), staff, StrategyBalanced)

		require.NoError(t, err)
		require.Len(t, result.Buckets, 3)
		require.Len(t, result.Buckets["a"], 3)
		require.Len(t, result.Buckets["b"], 3)
		require.Len(t, result.Buckets["c"], 3)
	})

	t.Run("round-robins in input order", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("a", 5, 10),
			staffMember("b", 0, 10),
		}

		result, err := Distribute(grievances(5), staff, StrategyBalanced)

		require.NoError(t, err)
		want := map[string][]string{
			"a": {"g-00", "g-02", "g-04"},
			"b": {"g-01", "g-03"},
		}
		if diff := cmp.Diff(want, bucketIDs(result)); diff != "" {
			t.Errorf("unexpected buckets (-want +got):\n%s", diff)
		}
	})

	t.Run("skips staff at or over capacity", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("full", 10, 10),
			staffMember("over", 30, 25),
			staffMember("free", 3, 10),
		}

		result, err := Distribute(grievances(4), staff, StrategyBalanced)

		require.NoError(t, err)
		require.Len(t, result.Buckets, 1)
		require.Len(t, result.Buckets["free"], 4)
	})

	t.Run("fails when everyone is at capacity", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("a", 10, 10),
			staffMember("b", 0, 0),
		}

		_, err := Distribute(grievances(2), staff, StrategyBalanced)

		require.ErrorIs(t, err, ErrNoEligibleStaff)
	})
}

func TestPriorityBased(t *testing.T) {
	t.Run("interleaves sorted grievances over least loaded staff", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("busy", 20, 25),
			staffMember("idle", 0, 25),
			staffMember("half", 5, 10),
		}
		input := []domain.Grievance{
			grievance("low-1", domain.CategoryComplaint, domain.GrievancePriorityLow),
			grievance("urgent-1", domain.CategoryComplaint, domain.GrievancePriorityUrgent),
			grievance("high-1", domain.CategoryComplaint, domain.GrievancePriorityHigh),
			grievance("urgent-2", domain.CategoryComplaint, domain.GrievancePriorityUrgent),
			grievance("medium-1", domain.CategoryComplaint, domain.GrievancePriorityMedium),
		}

		result, err := Distribute(input, staff, StrategyPriorityBased)

		require.NoError(t, err)
		// sorted staff: idle(0), half(0.5), busy(0.8)
		// sorted grievances: urgent-1, urgent-2, high-1, medium-1, low-1
		want := map[string][]string{
			"idle": {"urgent-1", "medium-1"},
			"half": {"urgent-2", "low-1"},
			"busy": {"high-1"},
		}
		if diff := cmp.Diff(want, bucketIDs(result)); diff != "" {
			t.Errorf("unexpected buckets (-want +got):\n%s", diff)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("a", 1, 10),
			staffMember("b", 1, 10),
			staffMember("c", 2, 20),
		}
		input := grievances(12)

		first, err := Distribute(input, staff, StrategyPriorityBased)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := Distribute(input, staff, StrategyPriorityBased)
			require.NoError(t, err)
			if diff := cmp.Diff(bucketIDs(first), bucketIDs(again)); diff != "" {
				t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
			}
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("first", 2, 10),
			staffMember("second", 4, 20),
		}
		input := []domain.Grievance{
			grievance("h1", "", domain.GrievancePriorityHigh),
			grievance("h2", "", domain.GrievancePriorityHigh),
		}

		result, err := Distribute(input, staff, StrategyPriorityBased)

		require.NoError(t, err)
		require.Equal(t, []string{"h1"}, bucketIDs(result)["first"])
		require.Equal(t, []string{"h2"}, bucketIDs(result)["second"])
	})

	t.Run("zero capacity sorts last", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("nocap", 0, 0),
			staffMember("loaded", 9, 10),
		}

		result, err := Distribute(grievances(1), staff, StrategyPriorityBased)

		require.NoError(t, err)
		require.Len(t, result.Buckets["loaded"], 1)
	})
}

func TestCategoryBased(t *testing.T) {
	t.Run("routes to the only matching specialist", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("generalist", 0, 25),
			staffMember("tech", 20, 25, domain.CategoryTechnicalIssue),
			staffMember("routes", 1, 25, domain.CategoryRouteIssue),
		}
		input := []domain.Grievance{
			grievance("g1", domain.CategoryTechnicalIssue, domain.GrievancePriorityLow),
			grievance("g2", domain.CategoryTechnicalIssue, domain.GrievancePriorityUrgent),
		}

		result, err := Distribute(input, staff, StrategyCategoryBased)

		require.NoError(t, err)
		require.Equal(t, []string{"g1", "g2"}, bucketIDs(result)["tech"])
	})

	t.Run("picks the least loaded specialist with first-seen tie break", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("s1", 4, 25, domain.CategoryComplaint),
			staffMember("s2", 2, 25, domain.CategoryComplaint),
			staffMember("s3", 2, 25, domain.CategoryComplaint),
		}

		result, err := Distribute([]domain.Grievance{grievance("g1", domain.CategoryComplaint, "")}, staff, StrategyCategoryBased)

		require.NoError(t, err)
		require.Equal(t, "s2", result.Assignments[0].StaffID)
	})

	t.Run("ignores specialists at capacity", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("full", 0, 0, domain.CategoryPayment),
			staffMember("other", 3, 25, domain.CategoryPayment),
		}

		result, err := Distribute([]domain.Grievance{grievance("g1", domain.CategoryPayment, "")}, staff, StrategyCategoryBased)

		require.NoError(t, err)
		require.Equal(t, "other", result.Assignments[0].StaffID)
	})

	t.Run("falls back to globally least loaded regardless of capacity", func(t *testing.T) {
		staff := []domain.StaffMember{
			staffMember("a", 30, 25),
			staffMember("b", 26, 25),
			staffMember("c", 26, 25, domain.CategoryComplaint),
		}

		result, err := Distribute([]domain.Grievance{
			grievance("g1", domain.CategoryDriverBehavior, domain.GrievancePriorityHigh),
			grievance("g2", domain.CategoryComplaint, domain.GrievancePriorityHigh),
		}, staff, StrategyCategoryBased)

		require.NoError(t, err)
		require.Equal(t, "b", result.Assignments[0].StaffID)
		require.Equal(t, "b", result.Assignments[1].StaffID)
		require.Contains(t, result.Assignments[0].Reason, "least loaded")
	})
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"balanced", "priority_based", " Category_Based "} {
		_, err := ParseStrategy(name)
		require.NoError(t, err, name)
	}
	_, err := ParseStrategy("random")
	require.ErrorIs(t, err, ErrUnknownStrategy)
}
