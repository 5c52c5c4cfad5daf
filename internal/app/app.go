// Package app assembles the domain services shared by the API server and the
// management CLI.
package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/campusfound/lostfound-backend/internal/auth"
	"github.com/campusfound/lostfound-backend/internal/catalog"
	"github.com/campusfound/lostfound-backend/internal/contacts"
	"github.com/campusfound/lostfound-backend/internal/items"
	"github.com/campusfound/lostfound-backend/internal/ledger"
	"github.com/campusfound/lostfound-backend/internal/notifications"
	"github.com/campusfound/lostfound-backend/internal/rewards"
	"github.com/campusfound/lostfound-backend/internal/seed"
	"github.com/campusfound/lostfound-backend/internal/users"
	"github.com/campusfound/lostfound-backend/pkg/config"
	"github.com/campusfound/lostfound-backend/pkg/db"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/mail"
	"github.com/campusfound/lostfound-backend/pkg/metrics"
)

// Services is the wired domain layer.
type Services struct {
	Users         *users.Repository
	Ledger        ledger.Service
	Items         items.Service
	Contacts      contacts.Service
	Catalog       catalog.Service
	Rewards       rewards.Service
	Notifications notifications.Service
	Dispatcher    *notifications.Dispatcher
	Notifier      *notifications.Notifier
	Register      auth.RegisterService
	StaffRegister auth.StaffRegisterService
	Seeder        *seed.Seeder
}

// Build wires every service over the database client. Metrics are registered
// on reg when it is non-nil.
func Build(cfg *config.Config, logg *logger.Logger, client *db.Client, reg prometheus.Registerer) (*Services, error) {
	conn := client.DB()
	userRepo := users.NewRepository(conn)

	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn), client, metrics.NewLedgerMetrics(reg))
	if err != nil {
		return nil, err
	}

	itemRepo := items.NewRepository(conn)
	itemSvc, err := items.NewService(itemRepo, client, ledgerSvc, userRepo, logg, items.Config{
		ExpiryWindow: cfg.Items.ExpiryWindow(),
	})
	if err != nil {
		return nil, err
	}

	contactSvc, err := contacts.NewService(contacts.NewRepository(conn), itemRepo, logg)
	if err != nil {
		return nil, err
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		return nil, err
	}

	rewardRepo := rewards.NewRepository(conn)
	rewardSvc, err := rewards.NewService(rewardRepo, client, ledgerSvc, logg)
	if err != nil {
		return nil, err
	}

	sender, err := mail.NewSender(cfg.Mail, logg)
	if err != nil {
		return nil, err
	}
	notificationRepo := notifications.NewRepository(conn)
	dispatcher, err := notifications.NewDispatcher(notificationRepo, userRepo, sender, metrics.NewNotificationMetrics(reg), logg, notifications.DispatcherConfig{
		SiteURL: cfg.Site.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	notificationSvc, err := notifications.NewService(notificationRepo)
	if err != nil {
		return nil, err
	}

	registerParams := auth.RegisterServiceParams{
		DB:             client,
		Ledger:         ledgerSvc,
		PasswordConfig: cfg.Password,
	}
	registerSvc, err := auth.NewRegisterService(registerParams)
	if err != nil {
		return nil, err
	}
	staffSvc, err := auth.NewStaffRegisterService(registerParams)
	if err != nil {
		return nil, err
	}

	return &Services{
		Users:         userRepo,
		Ledger:        ledgerSvc,
		Items:         itemSvc,
		Contacts:      contactSvc,
		Catalog:       catalogSvc,
		Rewards:       rewardSvc,
		Notifications: notificationSvc,
		Dispatcher:    dispatcher,
		Notifier:      notifications.NewNotifier(dispatcher, logg),
		Register:      registerSvc,
		StaffRegister: staffSvc,
		Seeder: &seed.Seeder{
			Templates: notificationRepo,
			Catalog:   catalogSvc,
			Vouchers:  rewardRepo,
			Rewards:   rewardSvc,
			Logger:    logg,
		},
	}, nil
}
