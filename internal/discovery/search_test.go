package discovery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ngo-events/internal/discovery"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

func searchFixture(t *testing.T) *discovery.Service {
	t.Helper()
	titled := func(id, title, desc, category string, tags ...string) *model.Event {
		e := modeltest.Event(modeltest.WithID(id), modeltest.WithTitle(title), modeltest.WithCategory(category))
		e.Description = desc
		e.Tags = tags
		return e
	}
	secret := titled("secret", "Garden board meeting", "garden", "governance")
	secret.Visibility = model.VisibilityPrivate
	draft := titled("draft", "Garden draft", "", "")
	draft.Status = model.StatusDraft

	return newService(t,
		titled("title", "Community Garden Day", "Planting.", "volunteering"),
		titled("tag", "Spring Planting", "Bring gloves.", "volunteering", "garden"),
		titled("desc", "Neighbourhood Picnic", "Held in the garden behind the hall.", "social"),
		titled("none", "Blood Drive", "Donate blood.", "health"),
		secret,
		draft,
	)
}

func TestSearchEvents_Ranking(t *testing.T) {
	svc := searchFixture(t)

	results, err := svc.SearchEvents(context.Background(), "Garden", repository.Filter{})
	require.NoError(t, err)

	var got []string
	for _, r := range results {
		got = append(got, r.Event.ID)
	}
	assert.Equal(t, []string{"title", "tag", "desc"}, got)
	assert.Equal(t, 3, results[0].Score)
	assert.Equal(t, 2, results[1].Score)
	assert.Equal(t, 1, results[2].Score)
}

func TestSearchEvents_MultipleTerms(t *testing.T) {
	svc := searchFixture(t)

	results, err := svc.SearchEvents(context.Background(), "planting, garden", repository.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "tag", results[0].Event.ID)
	assert.Equal(t, 5, results[0].Score)
}

func TestSearchEvents_NeverReturnsPrivate(t *testing.T) {
	svc := searchFixture(t)

	results, err := svc.SearchEvents(context.Background(), "governance", repository.Filter{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.SearchEvents(context.Background(), "garden", repository.Filter{
		Visibilities: []model.Visibility{model.VisibilityPrivate},
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEvents_StatusFilter(t *testing.T) {
	svc := searchFixture(t)

	results, err := svc.SearchEvents(context.Background(), "draft", repository.Filter{
		Statuses: []model.EventStatus{model.StatusDraft},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "draft", results[0].Event.ID)
}

func TestSearchEvents_EmptyQuery(t *testing.T) {
	svc := searchFixture(t)

	results, err := svc.SearchEvents(context.Background(), "  ", repository.Filter{Category: "health"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "none", results[0].Event.ID)
	assert.Zero(t, results[0].Score)
}

func TestScore(t *testing.T) {
	e := modeltest.Event(modeltest.WithTitle("Health Fair"), modeltest.WithCategory("health"))
	e.Description = "Free health checks"
	e.Tags = []string{"Health", "health-checks"}

	assert.Equal(t, 3+2+2+1, discovery.Score(e, []string{"health"}))
	assert.Zero(t, discovery.Score(e, []string{"music"}))
	assert.Zero(t, discovery.Score(e, nil))
}
