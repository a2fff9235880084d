package group

import (
	"CourseMarket/internal/models"
)

// pickGroup returns the least loaded group that still has room. Ties go to the
// lowest group number, then to the lowest ID, so the choice is deterministic.
// ok is false when every group is full or there are none.
func pickGroup(loads []models.GroupLoad, capacity int) (chosen models.GroupLoad, ok bool) {
	for _, l := range loads {
		if !l.HasRoom(capacity) {
			continue
		}
		if !ok || less(l, chosen) {
			chosen, ok = l, true
		}
	}
	return chosen, ok
}

func less(a, b models.GroupLoad) bool {
	if a.Students != b.Students {
		return a.Students < b.Students
	}
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	return a.ID.String() < b.ID.String()
}
