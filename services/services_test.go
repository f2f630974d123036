package services

import (
	"testing"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/testdb"
	"github.com/PabloUrbano2000/little-lemon-api/repository"

	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	f       *testdb.Fixtures
	cart    *CartService
	orders  *OrderService
	listing *ListingService
	menu    *MenuService
	groups  *GroupService
	outbox  *repository.OutboxRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.Open(t)
	f := testdb.Seed(t, db)

	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	return &env{
		db:      db,
		f:       f,
		cart:    NewCartService(db, cartRepo, menuRepo),
		orders:  NewOrderService(db, orderRepo, cartRepo, userRepo, outboxRepo),
		listing: NewListingService(db, orderRepo),
		menu:    NewMenuService(db, menuRepo),
		groups:  NewGroupService(db, userRepo),
		outbox:  outboxRepo,
	}
}

func as(u entity.User) Caller { return CallerFromUser(&u) }

func (e *env) count(t *testing.T, model any, where ...any) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
