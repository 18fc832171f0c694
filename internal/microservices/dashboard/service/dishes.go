package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/forms"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/store"

	"golang.org/x/sync/singleflight"
)

// Dish list filters besides a plain category name.
const (
	DishFilterAll         = "all"
	DishFilterAvailable   = "available"
	DishFilterUnavailable = "unavailable"
	DishFilterVeg         = "veg"
	DishFilterNonVeg      = "non-veg"

	GroupAllDishes = "All Dishes"
	GroupOther     = "Other Items"
)

// menuSections are the headings dishes are grouped under, in display order.
var menuSections = []string{domain.TypeMainCourse, domain.TypeAppetizer, domain.TypeDessert, domain.TypeBeverage}

type DishGroup struct {
	Name   string        `json:"name"`
	Dishes []domain.Dish `json:"dishes"`
}

type DishesView struct {
	Dishes     []domain.Dish `json:"dishes"`
	Groups     []DishGroup   `json:"groups"`
	Categories []string      `json:"categories"`
	Total      int           `json:"total"`
}

type DishServiceInterface interface {
	List(ctx context.Context, filter, search string) (DishesView, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, in forms.Dish) (domain.Dish, error)
	Update(ctx context.Context, id domain.ID, in forms.Dish) (domain.Dish, error)
	Delete(ctx context.Context, id domain.ID) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
	Catalog(ctx context.Context) (*store.DishCatalog, error)
}

type DishService struct {
	gw      Gateway
	catalog *store.DishCatalog
	log     *logger.Logger
	loads   singleflight.Group
}

func NewDishService(gw Gateway, catalog *store.DishCatalog, log *logger.Logger) *DishService {
	return &DishService{gw: gw, catalog: catalog, log: log}
}

// reload fetches the menu; concurrent callers share one request.
func (s *DishService) reload(ctx context.Context) error {
	_, err, _ := s.loads.Do("dishes", func() (any, error) {
		dishes, err := s.gw.FetchDishes(ctx)
		if err != nil {
			return nil, err
		}
		s.catalog.ReplaceAll(dishes)
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("load dishes: %w", err)
	}
	return nil
}

func (s *DishService) Catalog(ctx context.Context) (*store.DishCatalog, error) {
	if !s.catalog.Loaded() {
		if err := s.reload(ctx); err != nil {
			return nil, err
		}
	}
	return s.catalog, nil
}

func (s *DishService) List(ctx context.Context, filter, search string) (DishesView, error) {
	if err := s.reload(ctx); err != nil {
		return DishesView{}, err
	}
	all := s.catalog.List()
	matched := FilterDishes(all, filter, search)
	return DishesView{
		Dishes:     matched,
		Groups:     GroupDishes(matched, filter),
		Categories: DishCategories(all),
		Total:      len(all),
	}, nil
}

func (s *DishService) Categories(ctx context.Context) ([]string, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return DishCategories(cat.List()), nil
}

func (s *DishService) Create(ctx context.Context, in forms.Dish) (domain.Dish, error) {
	if err := in.Validate(); err != nil {
		return domain.Dish{}, err
	}
	d, err := s.gw.CreateDish(ctx, in.ToDomain())
	if err != nil {
		return domain.Dish{}, fmt.Errorf("create dish: %w", err)
	}
	s.afterChange(ctx, "dish_created", d.ID)
	return d, nil
}

func (s *DishService) Update(ctx context.Context, id domain.ID, in forms.Dish) (domain.Dish, error) {
	if err := in.Validate(); err != nil {
		return domain.Dish{}, err
	}
	next := in.ToDomain()
	next.ID = id
	d, err := s.gw.UpdateDish(ctx, id, next)
	if err != nil {
		return domain.Dish{}, s.mapNotFound(err, "update dish %s", id)
	}
	s.afterChange(ctx, "dish_updated", id)
	return d, nil
}

func (s *DishService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.gw.DeleteDish(ctx, id); err != nil {
		return s.mapNotFound(err, "delete dish %s", id)
	}
	s.afterChange(ctx, "dish_deleted", id)
	return nil
}

func (s *DishService) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	u, err := s.gw.UploadDishImage(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return u, nil
}

func (s *DishService) afterChange(ctx context.Context, action string, id domain.ID) {
	s.log.Info(action, map[string]any{"dish_id": id.String()})
	if err := s.reload(ctx); err != nil {
		s.log.Warn("dish_catalog_reload_failed", map[string]any{"reason": err.Error()})
	}
}

func (s *DishService) mapNotFound(err error, format string, id domain.ID) error {
	if errors.Is(err, gateway.ErrNotFound) {
		return fmt.Errorf(format+": %w", id, ErrNotFound)
	}
	return fmt.Errorf(format+": %w", id, err)
}

// FilterDishes applies the availability/type filter and a case-insensitive
// name search. Any filter that is not a known keyword is a dish type.
func FilterDishes(dishes []domain.Dish, filter, search string) []domain.Dish {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Dish, 0, len(dishes))
	for _, d := range dishes {
		if !matchDishFilter(d, filter) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matchDishFilter(d domain.Dish, filter string) bool {
	switch filter {
	case "", DishFilterAll:
		return true
	case DishFilterAvailable:
		return d.Available
	case DishFilterUnavailable:
		return !d.Available
	case DishFilterVeg:
		return d.HasType(domain.TypeVeg)
	case DishFilterNonVeg:
		return d.HasType(domain.TypeNonVeg)
	default:
		return d.HasType(filter)
	}
}

// GroupDishes sections an unfiltered list under its first matching menu
// section; a filtered list stays one group.
func GroupDishes(dishes []domain.Dish, filter string) []DishGroup {
	if filter != "" && filter != DishFilterAll {
		return []DishGroup{{Name: GroupAllDishes, Dishes: dishes}}
	}
	bySection := make(map[string][]domain.Dish)
	var other []domain.Dish
	for _, d := range dishes {
		placed := false
		for _, sec := range menuSections {
			if d.HasType(sec) {
				bySection[sec] = append(bySection[sec], d)
				placed = true
				break
			}
		}
		if !placed {
			other = append(other, d)
		}
	}
	groups := make([]DishGroup, 0, len(menuSections)+1)
	for _, sec := range menuSections {
		if len(bySection[sec]) > 0 {
			groups = append(groups, DishGroup{Name: sec, Dishes: bySection[sec]})
		}
	}
	if len(other) > 0 {
		groups = append(groups, DishGroup{Name: GroupOther, Dishes: other})
	}
	return groups
}

// DishCategories lists the distinct dish types other than Veg and Non-Veg.
func DishCategories(dishes []domain.Dish) []string {
	seen := make(map[string]struct{})
	for _, d := range dishes {
		for _, t := range d.Types {
			if t == domain.TypeVeg || t == domain.TypeNonVeg || t == "" {
				continue
			}
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
