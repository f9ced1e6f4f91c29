// Package storagetest contiene pruebas compartidas por los adapters de animals.Repository.
package storagetest

import (
	"context"
	"fmt"
	"math"
	"testing"

	"animal-rfid-relay/internal/domain/animals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Seed devuelve 25 animales: 5 con nombre/jenis distintivos + 20 "Sapi-NN".
func Seed() []animals.Animal {
	out := []animals.Animal{
		{ID: 1, RFIDCode: "A1", Name: "Bella", Species: "Dog", Age: 3, HealthStatus: "Healthy"},
		{ID: 2, RFIDCode: "A2", Name: "Nemo", Species: "Catfish", Age: 1, HealthStatus: "Healthy"},
		{ID: 3, RFIDCode: "A3", Name: "Tom", Species: "Cat", Age: 5, HealthStatus: "Sick"},
		{ID: 4, RFIDCode: "A4", Name: "Kiki", Species: "Bird", Age: 2, HealthStatus: "Healthy"},
		{ID: 5, RFIDCode: "A5", Name: "Scatty", Species: "Rabbit", Age: 4, HealthStatus: "Recovering"},
	}
	for i := 1; i <= 20; i++ {
		out = append(out, animals.Animal{
			ID:           int64(5 + i),
			RFIDCode:     fmt.Sprintf("S%02d", i),
			Name:         fmt.Sprintf("Sapi-%02d", i),
			Species:      "Cow",
			Age:          i % 7,
			HealthStatus: "Healthy",
		})
	}
	return out
}

// RunAnimalsRepo ejecuta el contrato contra un repo recién creado con Seed().
func RunAnimalsRepo(t *testing.T, newRepo func(t *testing.T, seed []animals.Animal) animals.Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetByRFID hit", func(t *testing.T) {
		repo := newRepo(t, Seed())
		a, err := repo.GetByRFID(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, animals.Animal{ID: 1, RFIDCode: "A1", Name: "Bella", Species: "Dog", Age: 3, HealthStatus: "Healthy"}, a)
	})

	t.Run("GetByRFID miss", func(t *testing.T) {
		repo := newRepo(t, Seed())
		_, err := repo.GetByRFID(ctx, "nope")
		assert.ErrorIs(t, err, animals.ErrNotFound)
	})

	t.Run("List default page", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, total, err := repo.List(ctx, query(1, 10, "", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		require.Len(t, items, 10)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, int64(10), items[9].ID)
	})

	t.Run("List last partial page", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, total, err := repo.List(ctx, query(3, 10, "", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Len(t, items, 5)
		assert.Equal(t, 3, animals.TotalPages(total, 10))
	})

	t.Run("List page out of range", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, total, err := repo.List(ctx, query(9, 10, "", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Empty(t, items)
	})

	t.Run("List huge page is empty with total", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, total, err := repo.List(ctx, query(math.MaxInt, 10, "", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Empty(t, items)

		q, err := animals.NormalizeListInput(animals.ListInput{Page: math.MaxInt, Limit: 100})
		require.NoError(t, err)
		items, total, err = repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Empty(t, items)
	})

	t.Run("List search folds non-ASCII case", func(t *testing.T) {
		repo := newRepo(t, []animals.Animal{
			{ID: 1, RFIDCode: "U1", Name: "Élan", Species: "Ñandú", Age: 2, HealthStatus: "Healthy"},
			{ID: 2, RFIDCode: "U2", Name: "Bella", Species: "Dog", Age: 3, HealthStatus: "Healthy"},
		})
		for _, s := range []string{"élan", "ÉLAN", "ñANDÚ"} {
			items, total, err := repo.List(ctx, query(1, 10, s, animals.SortByID, animals.OrderAsc))
			require.NoError(t, err, s)
			assert.Equal(t, 1, total, s)
			assert.Equal(t, []string{"U1"}, rfids(items), s)
		}
	})

	t.Run("List search is case-insensitive on nama or jenis", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, total, err := repo.List(ctx, query(1, 10, "CAT", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, []string{"A2", "A3", "A5"}, rfids(items))
	})

	t.Run("List count uses the same filter as the page", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, total, err := repo.List(ctx, query(2, 15, "sapi", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 20, total)
		assert.Len(t, items, 5)
	})

	t.Run("List search treats wildcards literally", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, total, err := repo.List(ctx, query(1, 10, "%", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, items)

		_, total, err = repo.List(ctx, query(1, 10, "_", animals.SortByID, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("List sort by nama ASC", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, _, err := repo.List(ctx, query(1, 3, "", animals.SortByName, animals.OrderAsc))
		require.NoError(t, err)
		assert.Equal(t, []string{"A1", "A4", "A2"}, rfids(items))
	})

	t.Run("List sort by usia DESC", func(t *testing.T) {
		repo := newRepo(t, Seed())
		items, _, err := repo.List(ctx, query(1, 25, "", animals.SortByAge, animals.OrderDesc))
		require.NoError(t, err)
		require.Len(t, items, 25)
		for i := 1; i < len(items); i++ {
			assert.GreaterOrEqual(t, items[i-1].Age, items[i].Age)
		}
	})
}

func query(page, limit int, search string, col animals.SortColumn, order animals.Order) animals.ListQuery {
	return animals.ListQuery{Page: page, Limit: limit, Search: search, SortBy: col, Order: order}
}

func rfids(items []animals.Animal) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.RFIDCode)
	}
	return out
}
