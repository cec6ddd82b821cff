package bootstrap

import (
	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/config"
	dashboardservice "github.com/terraverde/terraverde-api/internal/dashboard/service"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
	reportservice "github.com/terraverde/terraverde-api/internal/reports/service"
	speciesrepo "github.com/terraverde/terraverde-api/internal/species/repository"
	speciesservice "github.com/terraverde/terraverde-api/internal/species/service"
	userrepo "github.com/terraverde/terraverde-api/internal/users/repository"
	userservice "github.com/terraverde/terraverde-api/internal/users/service"
)

type Services struct {
	Species   *speciesservice.SpeciesService
	Users     *userservice.UserService
	Reports   *reportservice.ReportService
	Dashboard *dashboardservice.DashboardService
}

func BuildServices(cfg *config.Config, stores *Stores, log *zap.Logger) *Services {
	log = logger.OrNop(log)
	policy := speciesservice.ImagePolicy{
		MaxCount:     cfg.Images.MaxCount,
		MaxBytes:     cfg.Images.MaxBytes,
		AllowedTypes: cfg.Images.AllowedTypes,
	}
	species := speciesservice.NewSpeciesService(
		speciesrepo.NewSpeciesRepository(stores.Docs, cfg.App.SpeciesCollection),
		speciesservice.NewImageManager(stores.Blobs, policy, log.Named("images"), nil),
		speciesservice.Options{Cache: stores.Cache, Logger: log.Named("species")},
	)
	users := userservice.NewUserService(
		userrepo.NewUserRepository(stores.Docs, cfg.App.UsersCollection),
		log.Named("users"),
		nil,
	)
	reports := reportservice.NewReportService(species, stores.Archive, log.Named("reports"))

	return &Services{
		Species:   species,
		Users:     users,
		Reports:   reports,
		Dashboard: dashboardservice.NewDashboardService(species, users, reports),
	}
}
