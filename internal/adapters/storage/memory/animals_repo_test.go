package memory

import (
	"context"
	"testing"

	"animal-rfid-relay/internal/adapters/storage/storagetest"
	"animal-rfid-relay/internal/domain/animals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimalsRepo_Contract(t *testing.T) {
	storagetest.RunAnimalsRepo(t, func(t *testing.T, seed []animals.Animal) animals.Repository {
		return NewAnimalsRepo(seed...)
	})
}

func TestPut_AssignsUniqueIDs(t *testing.T) {
	repo := NewAnimalsRepo(
		animals.Animal{RFIDCode: "Z1", Name: "Zero"},
		animals.Animal{ID: 2, RFIDCode: "E2", Name: "Explicit"},
		animals.Animal{RFIDCode: "Z3", Name: "Zero again"},
		animals.Animal{RFIDCode: "Z4", Name: "And again"},
	)

	items, total, err := repo.List(context.Background(), animals.ListQuery{Page: 1, Limit: 10, SortBy: animals.SortByID, Order: animals.OrderAsc})
	require.NoError(t, err)
	require.Equal(t, 4, total)

	seen := map[int64]string{}
	for _, a := range items {
		_, dup := seen[a.ID]
		assert.False(t, dup, "duplicate id %d", a.ID)
		seen[a.ID] = a.RFIDCode
	}
	assert.Equal(t, map[int64]string{1: "Z1", 2: "E2", 3: "Z3", 4: "Z4"}, seen)
}

func TestPut_ReplaceKeepsID(t *testing.T) {
	repo := NewAnimalsRepo(storagetest.Seed()...).(*animalsRepo)

	require.NoError(t, repo.Put(animals.Animal{RFIDCode: "A3", Name: "Tom", Species: "Cat", Age: 6, HealthStatus: "Healthy"}))

	a, err := repo.GetByRFID(context.Background(), "A3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), a.ID)
	assert.Equal(t, 6, a.Age)

	require.NoError(t, repo.Put(animals.Animal{RFIDCode: "NEW", Name: "Nuevo"}))
	a, err = repo.GetByRFID(context.Background(), "NEW")
	require.NoError(t, err)
	assert.Equal(t, int64(26), a.ID)
}

func TestPut_RejectsIDOfAnotherTag(t *testing.T) {
	repo := NewAnimalsRepo(storagetest.Seed()...).(*animalsRepo)

	err := repo.Put(animals.Animal{ID: 1, RFIDCode: "OTHER"})
	assert.ErrorIs(t, err, errDuplicateID)

	_, err = repo.GetByRFID(context.Background(), "OTHER")
	assert.ErrorIs(t, err, animals.ErrNotFound)
}
