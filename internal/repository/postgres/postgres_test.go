package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(repository.Filter{Tags: []string{"outdoors"}})
	assert.Empty(t, where)
	assert.Empty(t, args)

	from := modeltest.Now
	where, args = buildWhere(repository.Filter{
		Statuses:     []model.EventStatus{model.StatusPublished},
		Visibilities: []model.Visibility{model.VisibilityPublic, model.VisibilityUnlisted},
		Category:     "health",
		EndFrom:      &from,
	})
	assert.Equal(t, " WHERE status = ANY($1) AND visibility = ANY($2) AND category = $3 AND end_date >= $4", where)
	assert.Equal(t, []any{[]string{"published"}, []string{"public", "unlisted"}, "health", from}, args)
}

func TestDecode_VersionFromColumn(t *testing.T) {
	e, err := decode([]byte(`{"id":"evt-1","title":"Community Cleanup","version":1}`), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), e.Version)
	assert.Equal(t, "Community Cleanup", e.Title)

	_, err = decode([]byte(`{`), 1)
	assert.Error(t, err)
}
