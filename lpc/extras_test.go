package lpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotos(t *testing.T) {
	up := &fakeUpstream{photos: decoded(`{"results":[
		{"id":1,"title":"Front","url":"https://photos.example.org/1.jpg","year":"1938"},
		{"id":2,"title":"Relative","url":"/2.jpg"},
		"junk"
	]}`)}
	got, err := newTestService(up).Photos(context.Background(), "LP-00001", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Photo{ID: "1", LPNumber: "LP-00001", Title: "Front", Year: "1938", URL: "https://photos.example.org/1.jpg"}, got[0])

	none, err := newTestService(&fakeUpstream{}).Photos(context.Background(), "LP-00001", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLandUse(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		up := &fakeUpstream{landUse: decoded(`{"bbl":"1015900023","address":"88 EAST END AVENUE","landUse":"08","yearBuilt":1799,"bldgClass":"Y1"}`)}
		got, err := newTestService(up).LandUse(context.Background(), "LP-00001")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].BBL)
		assert.Equal(t, "1015900023", *got[0].BBL)
		assert.Equal(t, 1799, got[0].YearBuilt)
		assert.Equal(t, "Y1", got[0].BuildingClass)
	})

	t.Run("list with blank bbl", func(t *testing.T) {
		up := &fakeUpstream{landUse: decoded(`[{"bbl":" ","address":"a"},{"address":"b"}]`)}
		got, err := newTestService(up).LandUse(context.Background(), "LP-00001")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Nil(t, got[0].BBL)
		assert.Nil(t, got[1].BBL)
	})
}

func TestReference(t *testing.T) {
	up := &fakeUpstream{reference: map[string]any{
		RefBorough:    decoded(`["Manhattan","Brooklyn",""]`),
		RefObjectType: decoded(`[{"code":"IL","name":"Individual Landmark"},{"name":"Scenic Landmark"},{}]`),
	}}
	svc := newTestService(up)

	got, err := svc.Reference(context.Background(), "BOROUGH")
	require.NoError(t, err)
	assert.Equal(t, []ReferenceItem{{Code: "Manhattan", Name: "Manhattan"}, {Code: "Brooklyn", Name: "Brooklyn"}}, got)

	got, err = svc.Reference(context.Background(), "objectType")
	require.NoError(t, err)
	assert.Equal(t, []ReferenceItem{
		{Code: "IL", Name: "Individual Landmark"},
		{Code: "Scenic Landmark", Name: "Scenic Landmark"},
	}, got)

	_, err = svc.Reference(context.Background(), "architect")
	require.ErrorIs(t, err, ErrUnknownReference)
}

func TestArticleReferences(t *testing.T) {
	t.Run("list of content objects", func(t *testing.T) {
		up := &fakeUpstream{web: decoded(`[
			{"lpcId":"LP-00001","content":[
				{"url":"https://en.wikipedia.org/wiki/Gracie_Mansion"},
				{"url":"https://www.nyc.gov/gracie"},
				{"links":["https://en.wikipedia.org/wiki/Gracie_Mansion"]}
			]},
			{"lpcId":"LP-00002","content":[{"url":"https://example.org"}]},
			{"content":[{"url":"https://en.wikipedia.org/wiki/Orphan"}]}
		]`)}
		got, err := newTestService(up).ArticleReferences(context.Background(), []string{"LP-00001", "LP-00002"})
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"LP-00001": {"https://en.wikipedia.org/wiki/Gracie_Mansion"},
		}, got)
		assert.Equal(t, [][]string{{"LP-00001", "LP-00002"}}, up.webCalls)
	})

	t.Run("object keyed by lp number", func(t *testing.T) {
		up := &fakeUpstream{web: decoded(`{
			"LP-00003":["https://de.wikipedia.org/wiki/Flatiron_Building","http://notwikipedia.org/x"]
		}`)}
		got, err := newTestService(up).ArticleReferences(context.Background(), []string{"LP-00003"})
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{"LP-00003": {"https://de.wikipedia.org/wiki/Flatiron_Building"}}, got)
	})

	t.Run("no ids skips the call", func(t *testing.T) {
		up := &fakeUpstream{}
		got, err := newTestService(up).ArticleReferences(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Empty(t, up.webCalls)
	})
}
