package lpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourorg/landmark-api/internal/logging"
)

func page(n int) any {
	return decoded(`{"results":[` + strings.TrimSuffix(strings.Repeat(`{},`, n), ",") + `]}`)
}

func TestTotalCount(t *testing.T) {
	t.Run("metadata total", func(t *testing.T) {
		up := &fakeUpstream{pages: map[[2]int]any{{1, 1}: decoded(`{"results":[{}],"totalCount":1432}`)}}
		assert.Equal(t, 1432, newTestService(up).TotalCount(context.Background()))
		assert.Len(t, up.listCalls, 1)
	})

	t.Run("page walk sums until a short page", func(t *testing.T) {
		up := &fakeUpstream{pages: map[[2]int]any{
			{1, 1}:  decoded(`{"results":[{}]}`),
			{50, 1}: page(50),
			{50, 2}: page(50),
			{50, 3}: page(30),
		}}
		assert.Equal(t, 130, newTestService(up).TotalCount(context.Background()))
	})

	t.Run("walk stops on an empty page", func(t *testing.T) {
		up := &fakeUpstream{pages: map[[2]int]any{
			{50, 1}: page(50),
			{50, 2}: page(0),
		}}
		assert.Equal(t, 50, newTestService(up).TotalCount(context.Background()))
	})

	t.Run("empty first page reports one", func(t *testing.T) {
		up := &fakeUpstream{pages: map[[2]int]any{{50, 1}: page(0)}}
		assert.Equal(t, 1, newTestService(up).TotalCount(context.Background()))
	})

	t.Run("walk ceiling bounds the cost", func(t *testing.T) {
		pages := map[[2]int]any{}
		for i := 1; i <= 10; i++ {
			pages[[2]int{5, i}] = page(5)
		}
		up := &fakeUpstream{pages: pages}
		svc := NewService(up, Options{Logger: logging.Discard(), CountPageSize: 5, CountMaxPages: 3})
		assert.Equal(t, 15, svc.TotalCount(context.Background()))
	})

	t.Run("failure mid-walk falls back to the default", func(t *testing.T) {
		up := &fakeUpstream{
			pages:   map[[2]int]any{{50, 1}: page(50), {50, 2}: page(50)},
			pageErr: map[[2]int]error{{50, 3}: errors.New("reset")},
		}
		assert.Equal(t, DefaultTotalCount, newTestService(up).TotalCount(context.Background()))
	})

	t.Run("everything failing yields the default", func(t *testing.T) {
		boom := fmt.Errorf("wrapped: %w", &RequestError{Path: "/api/LpcReport", StatusCode: 500})
		up := &fakeUpstream{pageErr: map[[2]int]error{{1, 1}: boom, {50, 1}: boom}}
		assert.Equal(t, DefaultTotalCount, newTestService(up).TotalCount(context.Background()))

		svc := NewService(up, Options{Logger: logging.Discard(), DefaultTotalCount: 7})
		assert.Equal(t, 7, svc.TotalCount(context.Background()))
	})
}
