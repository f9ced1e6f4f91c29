package animals

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRepo struct {
	gotQuery ListQuery
	items    []Animal
	total    int
	err      error
}

func (r *captureRepo) GetByRFID(ctx context.Context, rfid string) (Animal, error) {
	for _, a := range r.items {
		if a.RFIDCode == rfid {
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

func (r *captureRepo) List(ctx context.Context, q ListQuery) ([]Animal, int, error) {
	r.gotQuery = q
	return r.items, r.total, r.err
}

func TestNormalizeListInput_Defaults(t *testing.T) {
	q, err := NormalizeListInput(ListInput{})
	require.NoError(t, err)

	assert.Equal(t, ListQuery{Page: 1, Limit: 10, SortBy: SortByID, Order: OrderAsc}, q)
	assert.Equal(t, 0, q.Offset())
}

func TestNormalizeListInput_Clamps(t *testing.T) {
	q, err := NormalizeListInput(ListInput{Page: -3, Limit: 5000, Search: "  cat ", SortBy: "usia", Order: "desc"})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, "cat", q.Search)
	assert.Equal(t, SortByAge, q.SortBy)
	assert.Equal(t, OrderDesc, q.Order)
}

func TestNormalizeListInput_HugePageStaysAddressable(t *testing.T) {
	q, err := NormalizeListInput(ListInput{Page: math.MaxInt, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, math.MaxInt/10, q.Page)
	assert.GreaterOrEqual(t, q.Offset(), 0)
	assert.GreaterOrEqual(t, q.Offset()+q.Limit, q.Offset())
}

func TestListQuery_OffsetSaturates(t *testing.T) {
	q := ListQuery{Page: math.MaxInt, Limit: MaxLimit}
	assert.Equal(t, math.MaxInt, q.Offset())

	assert.Equal(t, 0, ListQuery{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 20, ListQuery{Page: 3, Limit: 10}.Offset())
}

func TestService_List_HugePageIsEmptyWithTotals(t *testing.T) {
	repo := &captureRepo{items: []Animal{}, total: 25}
	svc := NewService(repo)

	p, err := svc.List(context.Background(), ListInput{Page: math.MaxInt})
	require.NoError(t, err)

	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.GreaterOrEqual(t, repo.gotQuery.Offset(), 0)
}

func TestNormalizeListInput_RejectsUnknownSort(t *testing.T) {
	for _, s := range []string{"name", "id; DROP TABLE animals", "ID", "created_at"} {
		_, err := NormalizeListInput(ListInput{SortBy: s})
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, ErrInvalidSort), s)
	}
}

func TestParseOrder(t *testing.T) {
	cases := map[string]Order{
		"":        OrderAsc,
		"ASC":     OrderAsc,
		"DESC":    OrderDesc,
		"desc":    OrderDesc,
		"random":  OrderAsc,
		" Desc ":  OrderDesc,
		"DESCEND": OrderAsc,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseOrder(in), in)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 2, TotalPages(20, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
}

func TestService_List_PagesAndTotals(t *testing.T) {
	repo := &captureRepo{
		items: []Animal{{ID: 11, RFIDCode: "K11", Name: "Kiki"}},
		total: 25,
	}
	svc := NewService(repo)

	p, err := svc.List(context.Background(), ListInput{Page: 3, Limit: 10, SortBy: "nama", Order: "DESC"})
	require.NoError(t, err)

	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 1)

	assert.Equal(t, 20, repo.gotQuery.Offset())
	assert.Equal(t, SortByName, repo.gotQuery.SortBy)
	assert.Equal(t, OrderDesc, repo.gotQuery.Order)
}

func TestService_List_InvalidSortSkipsRepo(t *testing.T) {
	repo := &captureRepo{}
	svc := NewService(repo)

	_, err := svc.List(context.Background(), ListInput{SortBy: "password"})
	require.ErrorIs(t, err, ErrInvalidSort)
	assert.Equal(t, ListQuery{}, repo.gotQuery)
}

func TestService_List_StorageErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(&captureRepo{err: boom})

	_, err := svc.List(context.Background(), ListInput{})
	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrInvalidSort))
}

func TestService_GetByRFID_BlankIsInvalid(t *testing.T) {
	svc := NewService(&captureRepo{})

	_, err := svc.GetByRFID(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
