package animals

import (
	"context"
	"math"
	"strings"

	"animal-rfid-relay/internal/platform/errs"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByRFID(ctx context.Context, rfid string) (Animal, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByRFID(ctx, rfid)
}

// ListInput son los parámetros crudos de GET /hewan (0 / "" => default).
type ListInput struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Order  string
}

func (s *Service) List(ctx context.Context, in ListInput) (Page, error) {
	q, err := NormalizeListInput(in)
	if err != nil {
		return Page{}, err
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, errs.Wrap(err, "list animals")
	}
	if items == nil {
		items = []Animal{}
	}

	return Page{
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
		Items:      items,
	}, nil
}

// Ping delega al repo si soporta health check.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.repo.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func NormalizeListInput(in ListInput) (ListQuery, error) {
	sortBy, err := ParseSortColumn(in.SortBy)
	if err != nil {
		return ListQuery{}, err
	}

	q := ListQuery{
		Page:   in.Page,
		Limit:  in.Limit,
		Search: strings.TrimSpace(in.Search),
		SortBy: sortBy,
		Order:  ParseOrder(in.Order),
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	// Offset()+Limit no debe desbordar int.
	if maxPage := MaxPage(q.Limit); q.Page > maxPage {
		q.Page = maxPage
	}
	return q, nil
}

// MaxPage es la página más alta direccionable con limit sin desbordar el offset.
func MaxPage(limit int) int {
	if limit <= 0 {
		return math.MaxInt
	}
	return math.MaxInt / limit
}

// TotalPages = ceil(total/limit).
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
