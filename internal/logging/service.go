package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crowdwatch-monitor/internal/config"
)

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("monitor_id", cfg.MonitorID).Str("service", service).Logger()
}

func WithLocation(base zerolog.Logger, location string) zerolog.Logger {
	return base.With().Str("location", location).Logger()
}
