// internal/store/collection_test.go
package store

import (
	"context"
	"errors"
	"testing"

	"bizpilot-core/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type testRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (r testRecord) RecordID() string { return r.ID }

func createTestCollection(t *testing.T, medium Medium) *Collection[testRecord] {
	return NewCollection[testRecord](medium, "bizpilot:test", logger.NewTestLogger(t))
}

func setupMiniredis(t *testing.T) *redis.Client {
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCollection_SaveAndFindByID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	coll := createTestCollection(t, NewMemoryMedium())

	rec := testRecord{ID: "idea-1", Title: "EcoBox"}
	coll.Save(ctx, rec)

	got, found := coll.FindByID(ctx, "idea-1")
	require.True(t, found)
	assert.Equal(t, rec, got)
}

func TestCollection_Save_LengthInvariants(t *testing.T) {
	ctx := context.Background()
	coll := createTestCollection(t, NewMemoryMedium())

	coll.Save(ctx, testRecord{ID: "a", Title: "first"})
	coll.Save(ctx, testRecord{ID: "b", Title: "second"})
	require.Len(t, coll.LoadAll(ctx), 2)

	// Existing id never increases collection length.
	coll.Save(ctx, testRecord{ID: "a", Title: "first, revised"})
	all := coll.LoadAll(ctx)
	require.Len(t, all, 2)

	// Replacement happens in place, preserving insertion order.
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "first, revised", all[0].Title)
	assert.Equal(t, "b", all[1].ID)

	// A new id always increases length by exactly one.
	coll.Save(ctx, testRecord{ID: "c", Title: "third"})
	assert.Len(t, coll.LoadAll(ctx), 3)
}

func TestCollection_LoadAll_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	coll := createTestCollection(t, NewMemoryMedium())

	ids := []string{"one", "two", "three", "four"}
	for _, id := range ids {
		coll.Save(ctx, testRecord{ID: id})
	}

	all := coll.LoadAll(ctx)
	require.Len(t, all, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, all[i].ID)
	}
}

func TestCollection_FindByID_NotFound(t *testing.T) {
	ctx := context.Background()
	coll := createTestCollection(t, NewMemoryMedium())

	_, found := coll.FindByID(ctx, "missing")
	assert.False(t, found)
}

// ==========================
// Degradation Tests
// ==========================

func TestCollection_LoadAll_EmptyAndCorrupted(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{name: "empty medium", stored: ""},
		{name: "corrupted json", stored: "{not json"},
		{name: "wrong shape", stored: `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			medium := NewMemoryMedium()
			if tt.stored != "" {
				require.NoError(t, medium.Set(ctx, "bizpilot:test", tt.stored))
			}
			coll := createTestCollection(t, medium)
			assert.Empty(t, coll.LoadAll(ctx))
		})
	}
}

func TestCollection_NilMedium_NoOps(t *testing.T) {
	ctx := context.Background()
	coll := createTestCollection(t, nil)

	// Save must be a silent no-op, LoadAll an empty sequence.
	coll.Save(ctx, testRecord{ID: "a"})
	assert.Empty(t, coll.LoadAll(ctx))

	_, found := coll.FindByID(ctx, "a")
	assert.False(t, found)
}

func TestCollection_UnavailableMedium_DegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("bizpilot:test").SetErr(errors.New("connection refused"))

	coll := createTestCollection(t, NewRedisMedium(client))
	assert.Empty(t, coll.LoadAll(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_UnavailableMedium_SaveDropped(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("bizpilot:test").RedisNil()
	mock.ExpectSet("bizpilot:test", `[{"id":"a","title":""}]`, 0).SetErr(errors.New("connection refused"))

	coll := createTestCollection(t, NewRedisMedium(client))
	// Must not panic or surface the error.
	coll.Save(ctx, testRecord{ID: "a"})
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Redis Medium Tests
// ==========================

func TestCollection_RedisMedium_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := setupMiniredis(t)
	coll := createTestCollection(t, NewRedisMedium(client))

	coll.Save(ctx, testRecord{ID: "idea-1", Title: "EcoBox"})
	coll.Save(ctx, testRecord{ID: "idea-2", Title: "PetPal"})
	coll.Save(ctx, testRecord{ID: "idea-1", Title: "EcoBox v2"})

	all := coll.LoadAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "EcoBox v2", all[0].Title)
	assert.Equal(t, "idea-2", all[1].ID)

	got, found := coll.FindByID(ctx, "idea-2")
	require.True(t, found)
	assert.Equal(t, "PetPal", got.Title)
}

func TestCollection_RedisMedium_IndependentKeys(t *testing.T) {
	ctx := context.Background()
	client := setupMiniredis(t)
	log := logger.NewNoOpLogger()

	ideas := NewCollection[testRecord](NewRedisMedium(client), KeyIdeas, log)
	updates := NewCollection[testRecord](NewRedisMedium(client), KeyDailyUpdates, log)

	ideas.Save(ctx, testRecord{ID: "idea-1"})
	assert.Len(t, ideas.LoadAll(ctx), 1)
	assert.Empty(t, updates.LoadAll(ctx))
}
