package service

import (
	"context"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

// appInfoService reports the build serving the requests. The answer is fixed
// at construction.
type appInfoService struct {
	build models.AppBuildInfo
}

func NewAppInfoService(cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	build := models.NewAppBuildInfo(cfg.Version, cfg.BuildDate, cfg.BuildCommit)
	logger.Debug().Stringer("build", build).Msg("app info service created")

	return &appInfoService{build: build}, nil
}

func (s *appInfoService) GetVersion(_ context.Context) models.VersionResponse {
	return models.VersionResponse{
		Version:   s.build.BuildVersion(),
		Commit:    s.build.BuildCommit(),
		BuildDate: s.build.BuildDate(),
	}
}
