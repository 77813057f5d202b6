package service

import (
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-pos-backend/internal/events"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
)

// recordingPublisher captures events for inspection. Services publish from
// goroutines after commit, so access is guarded.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(evt events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

type testEnv struct {
	db          *gorm.DB
	publisher   *recordingPublisher
	productRepo repository.ProductRepository
	requestRepo repository.ChangeRequestRepository
	historyRepo repository.HistoryRepository
	saleRepo    repository.SaleRepository

	productService ProductService
	requestService ChangeRequestService
	saleService    SaleService
	historyService HistoryService

	org     *model.Organization
	owner   Actor
	cashier Actor
}

// newTestEnv boots the full service stack against an in-memory database.
// The pool is capped at one connection so concurrent transactions serialize
// the way row locks would on a real server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.Product{},
		&model.Variant{},
		&model.ChangeRequest{},
		&model.ChangeHistory{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Customer{},
		&model.Vendor{},
	))

	org := &model.Organization{Name: "Test Store"}
	require.NoError(t, db.Create(org).Error)

	ownerUser := &model.User{Username: "test-owner", OrganizationID: &org.ID, Role: model.RoleOwner, IsActive: true}
	require.NoError(t, ownerUser.SetPassword("secret"))
	require.NoError(t, db.Create(ownerUser).Error)

	cashierUser := &model.User{Username: "test-cashier", OrganizationID: &org.ID, Role: model.RoleCashier, IsActive: true}
	require.NoError(t, cashierUser.SetPassword("secret"))
	require.NoError(t, db.Create(cashierUser).Error)

	log := logrus.New()
	log.SetOutput(io.Discard)

	publisher := &recordingPublisher{}

	productRepo := repository.NewProductRepo(db)
	requestRepo := repository.NewChangeRequestRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	return &testEnv{
		db:          db,
		publisher:   publisher,
		productRepo: productRepo,
		requestRepo: requestRepo,
		historyRepo: historyRepo,
		saleRepo:    saleRepo,

		productService: NewProductService(productRepo, db, publisher, log),
		requestService: NewChangeRequestService(requestRepo, historyRepo, productRepo, db, publisher, log),
		saleService:    NewSaleService(saleRepo, productRepo, historyRepo, db, publisher, log),
		historyService: NewHistoryService(historyRepo, db, publisher, log),

		org:     org,
		owner:   Actor{UserID: ownerUser.ID, Username: ownerUser.Username, OrganizationID: org.ID, Role: model.RoleOwner},
		cashier: Actor{UserID: cashierUser.ID, Username: cashierUser.Username, OrganizationID: org.ID, Role: model.RoleCashier},
	}
}

// createVariant creates a one-variant product and returns the variant.
func (env *testEnv) createVariant(t *testing.T, sku string, qty int, salePrice, purchasePrice string) *model.Variant {
	t.Helper()

	sale, err := decimal.NewFromString(salePrice)
	require.NoError(t, err)
	purchase, err := decimal.NewFromString(purchasePrice)
	require.NoError(t, err)

	product, err := env.productService.CreateProduct(env.owner, &CreateProductInput{
		Name: "Product " + sku,
		Variants: []VariantInput{{
			SKU:           sku,
			SalePrice:     sale,
			PurchasePrice: purchase,
			Quantity:      qty,
		}},
	})
	require.NoError(t, err)
	require.Len(t, product.Variants, 1)
	return &product.Variants[0]
}

func (env *testEnv) variantQuantity(t *testing.T, variantID uuid.UUID) int {
	t.Helper()
	var variant model.Variant
	require.NoError(t, env.db.First(&variant, "id = ?", variantID).Error)
	return variant.Quantity
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}
