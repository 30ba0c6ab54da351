package board

import "github.com/boardsync/backend/domain"

// leastLoaded picks the user with the fewest active (non-terminal) tasks.
// Ties break toward the earlier user in directory order. The scan is
// O(users); callers precompute active counts in O(tasks). Both sets are
// small and the operation is off the hot path.
func leastLoaded(users []domain.User, active map[string]int) *domain.User {
	var best *domain.User
	bestCount := 0
	for i := range users {
		count := active[users[i].ID]
		if best == nil || count < bestCount {
			best = &users[i]
			bestCount = count
		}
	}
	return best
}
