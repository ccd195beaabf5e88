package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	accountssvc "github.com/patitas/storefront/internal/app/services/accounts"
	cartsvc "github.com/patitas/storefront/internal/app/services/cart"
	catalogsvc "github.com/patitas/storefront/internal/app/services/catalog"
	orderssvc "github.com/patitas/storefront/internal/app/services/orders"
	"github.com/patitas/storefront/internal/app/services/params"
	reportssvc "github.com/patitas/storefront/internal/app/services/reports"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/internal/app/storage/memory"
	"github.com/patitas/storefront/internal/app/system"
	"github.com/patitas/storefront/internal/httputil"
	"github.com/patitas/storefront/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Products   storage.ProductStore
	Categories storage.CategoryStore
	Customers  storage.CustomerStore
	Users      storage.UserStore
	Orders     storage.OrderStore
	Parameters storage.ParameterStore
	CartKV     storage.KV
}

// Options carries the settings the services need beyond their stores.
type Options struct {
	JWTSecret        string
	SnapshotSchedule string
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Params   *params.Service
	Catalog  *catalogsvc.Service
	Cart     *cartsvc.Service
	Accounts *accountssvc.Service
	Orders   *orderssvc.Service
	Reports  *reportssvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Products == nil {
		stores.Products = mem
	}
	if stores.Categories == nil {
		stores.Categories = mem
	}
	if stores.Customers == nil {
		stores.Customers = mem
	}
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Orders == nil {
		stores.Orders = mem
	}
	if stores.Parameters == nil {
		stores.Parameters = mem
	}
	if stores.CartKV == nil {
		stores.CartKV = mem
	}

	manager := system.NewManager()

	httpClient := &http.Client{Timeout: 10 * time.Second}

	var paramSource params.Source
	if endpoint := strings.TrimSpace(os.Getenv("PARAMS_FETCH_URL")); endpoint != "" {
		source, err := params.NewHTTPSource(httpClient, endpoint, os.Getenv("PARAMS_FETCH_KEY"), log)
		if err != nil {
			log.WithError(err).Warn("configure parameter source")
		} else {
			paramSource = source
		}
	}
	paramService := params.New(paramSource, stores.Parameters, log)

	catalogService := catalogsvc.New(stores.Products, stores.Categories, log)

	var notifier cartsvc.Notifier
	if endpoint := strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK_URL")); endpoint != "" {
		client := httputil.NewClient(httputil.ClientConfig{BaseURL: endpoint})
		notifier = cartsvc.NewWebhookNotifier(client, log)
	} else {
		log.Warn("NOTIFY_WEBHOOK_URL not set; notifications go to the log")
	}
	cartService := cartsvc.New(stores.CartKV, paramService, notifier, log)

	var mailer accountssvc.Mailer
	if apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")); apiKey != "" {
		mailer = accountssvc.NewSendGridMailer(apiKey, os.Getenv("MAIL_FROM_NAME"), os.Getenv("MAIL_FROM_ADDRESS"))
	} else {
		log.Warn("SENDGRID_API_KEY not set; mail goes to the log")
	}
	accountService := accountssvc.New(stores.Users, stores.Customers, paramService, mailer, opts.JWTSecret, log)

	orderService := orderssvc.New(stores.Orders, cartService, catalogService, log)
	reportService := reportssvc.New(stores.Orders, stores.CartKV, log)

	for _, name := range []string{"params", "catalog", "cart", "accounts", "orders"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	snapshotter := reportssvc.NewSnapshotter(reportService, opts.SnapshotSchedule, log)
	if err := manager.Register(snapshotter); err != nil {
		return nil, fmt.Errorf("register %s: %w", snapshotter.Name(), err)
	}

	return &Application{
		manager:  manager,
		log:      log,
		Params:   paramService,
		Catalog:  catalogService,
		Cart:     cartService,
		Accounts: accountService,
		Orders:   orderService,
		Reports:  reportService,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
