package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/angelmondragon/sellercenter-backend/api/responses"
	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type diskUsage interface {
	Usage(ctx context.Context) (*disk.UsageStat, error)
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SellerCenter-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis. Upload volume usage is reported
// but never fails the probe.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger, uploads diskUsage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SellerCenter-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]pinger{"database": dbP, "redis": redisP}
		for name, p := range checks {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, name+" not ready"))
				return
			}
		}

		payload := map[string]any{"status": "ready"}
		if uploads != nil {
			usage, err := uploads.Usage(ctx)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "health.uploads_usage")
				}
			} else {
				payload["uploads"] = map[string]any{
					"path":        usage.Path,
					"freeBytes":   usage.Free,
					"usedPercent": usage.UsedPercent,
				}
			}
		}
		responses.WriteSuccess(w, payload)
	}
}
