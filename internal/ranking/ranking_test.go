package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/ranking"
)

func ids(films []model.Film) []int64 {
	out := make([]int64, 0, len(films))
	for _, f := range films {
		out = append(out, f.ID)
	}
	return out
}

func TestMostPopularOrdersByLikesThenID(t *testing.T) {
	films := []model.Film{
		{ID: 4, Likes: []int64{1}},
		{ID: 2, Likes: []int64{1, 2, 3}},
		{ID: 3, Likes: []int64{}},
		{ID: 1, Likes: []int64{5}},
	}

	assert.Equal(t, []int64{2, 1, 4, 3}, ids(ranking.MostPopular(films, 10)))
	assert.Equal(t, []int64{2, 1}, ids(ranking.MostPopular(films, 2)))
	// input untouched
	assert.Equal(t, int64(4), films[0].ID)
}

func TestMostPopularScenario(t *testing.T) {
	// like(1,10), like(1,11), like(2,10)
	films := []model.Film{
		{ID: 1, Likes: []int64{10, 11}},
		{ID: 2, Likes: []int64{10}},
	}
	assert.Equal(t, []int64{1, 2}, ids(ranking.MostPopular(films, 2)))
}

func TestMostPopularEdgeCases(t *testing.T) {
	assert.Empty(t, ranking.MostPopular(nil, 5))
	assert.NotNil(t, ranking.MostPopular(nil, 5))
	assert.Empty(t, ranking.MostPopular([]model.Film{{ID: 1}}, 0))
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []int64{2, 5}, ranking.Intersect([]int64{5, 1, 2, 2}, []int64{2, 5, 7}))
	assert.Equal(t, []int64{}, ranking.Intersect(nil, []int64{1}))
}
