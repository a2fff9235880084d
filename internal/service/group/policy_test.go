package group

import (
	"testing"

	"CourseMarket/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func load(number, students int) models.GroupLoad {
	return models.GroupLoad{Group: models.Group{ID: uuid.New(), Number: number}, Students: students}
}

func TestPickGroup(t *testing.T) {
	tests := []struct {
		name       string
		loads      []models.GroupLoad
		wantOK     bool
		wantNumber int
	}{
		{name: "no groups", loads: nil, wantOK: false},
		{name: "all full", loads: []models.GroupLoad{load(1, 30), load(2, 30)}, wantOK: false},
		{name: "over capacity counts as full", loads: []models.GroupLoad{load(1, 31)}, wantOK: false},
		{name: "single with room", loads: []models.GroupLoad{load(1, 29)}, wantOK: true, wantNumber: 1},
		{name: "least loaded wins", loads: []models.GroupLoad{load(1, 12), load(2, 3), load(3, 7)}, wantOK: true, wantNumber: 2},
		{name: "full groups skipped", loads: []models.GroupLoad{load(1, 30), load(2, 29)}, wantOK: true, wantNumber: 2},
		{name: "tie goes to lowest number", loads: []models.GroupLoad{load(3, 5), load(2, 5), load(4, 5)}, wantOK: true, wantNumber: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickGroup(tt.loads, models.GroupCapacity)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantNumber, got.Number)
			}
		})
	}
}

func TestPickGroupTieOnNumberUsesID(t *testing.T) {
	a := models.GroupLoad{Group: models.Group{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Number: 1}}
	b := models.GroupLoad{Group: models.Group{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Number: 1}}

	got, ok := pickGroup([]models.GroupLoad{a, b}, models.GroupCapacity)
	assert.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
}
