package lpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLandmarkProbesCandidatesInOrder(t *testing.T) {
	up := &fakeUpstream{reports: map[string]any{
		"LP-0123A":  errors.New("connection reset"),
		"LP-00123A": decoded(`{}`),
		"LP-00123":  decoded(`{"name":"Row House","dateDesignated":"1970-01-01"}`),
	}}
	svc := newTestService(up)

	d, found, err := svc.ResolveLandmark(context.Background(), "00123A")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"LP-0123A", "LP-00123A", "LP-00123"}, up.reportCalls)
	assert.Equal(t, "Row House", d.Name)
	assert.Equal(t, "1970-01-01", d.DesignationDate)
	// No id in the response: first prefixed candidate backs the LP number.
	assert.Equal(t, "LP-0123A", d.LPNumber)
}

func TestResolveLandmarkUsesResponseID(t *testing.T) {
	up := &fakeUpstream{reports: map[string]any{
		"LP-00009": decoded(`{"id":"LP-00009X","name":"Tower"}`),
	}}
	svc := newTestService(up)

	l, found, err := svc.Resolve(context.Background(), "9")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "LP-00009X", l.LPNumber)
	assert.Equal(t, "Tower", l.Name)
}

func TestResolveLandmarkNotFound(t *testing.T) {
	up := &fakeUpstream{reports: map[string]any{
		"LP-00042": decoded(`["unexpected list"]`),
	}}
	svc := newTestService(up)

	d, found, err := svc.ResolveLandmark(context.Background(), "42")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, d)

	_, found, err = svc.ResolveLandmark(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveLandmarkStopsOnCancel(t *testing.T) {
	up := &fakeUpstream{}
	svc := newTestService(up)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, found, err := svc.ResolveLandmark(ctx, "00123A")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, found)
	assert.Empty(t, up.reportCalls)
}

func TestResolveLandmarkRawReturnsPayload(t *testing.T) {
	up := &fakeUpstream{reports: map[string]any{
		"LP-00001": decoded(`{"lpNumber":"LP-00001","name":"Gracie Mansion"}`),
	}}
	svc := newTestService(up)

	d, raw, found, err := svc.ResolveLandmarkRaw(context.Background(), "LP-00001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Gracie Mansion", d.Name)
	assert.Equal(t, "Gracie Mansion", raw["name"])
}

func TestResolveContextID(t *testing.T) {
	assert.Equal(t, "LP-1", resolveContextID(map[string]any{"id": "LP-1"}, []string{"LP-2"}, "x"))
	assert.Equal(t, "LP-2", resolveContextID(map[string]any{}, []string{"LP-2"}, "x"))
	assert.Equal(t, "x", resolveContextID(map[string]any{}, nil, "x"))
}
