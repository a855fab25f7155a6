package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/angelmondragon/sellercenter-backend/api/controllers"
	"github.com/angelmondragon/sellercenter-backend/api/middleware"
	"github.com/angelmondragon/sellercenter-backend/internal/auth"
	"github.com/angelmondragon/sellercenter-backend/internal/categories"
	"github.com/angelmondragon/sellercenter-backend/internal/groups"
	"github.com/angelmondragon/sellercenter-backend/internal/media"
	products "github.com/angelmondragon/sellercenter-backend/internal/products"
	"github.com/angelmondragon/sellercenter-backend/internal/stats"
	"github.com/angelmondragon/sellercenter-backend/internal/users"
	"github.com/angelmondragon/sellercenter-backend/pkg/auth/session"
	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
	"github.com/angelmondragon/sellercenter-backend/pkg/redis"
)

// RateLimitStore backs the login throttle.
type RateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// UploadVolume is the local directory media files are served from.
type UploadVolume interface {
	Root() string
	Usage(ctx context.Context) (*disk.UsageStat, error)
}

// Dependencies carries everything the router wires into handlers. Nil
// services make their handlers answer 500.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       redis.Pinger
	RateLimiter RateLimitStore
	Sessions    session.AccessSessionChecker
	Uploads     UploadVolume
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth       auth.Service
	Users      users.Service
	Products   products.Service
	Stats      stats.Service
	Categories categories.Service
	Groups     groups.Service
	Media      media.Service
}

func NewRouter(d Dependencies) http.Handler {
	cfg, logg := d.Config, d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginLimit := middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), d.RateLimiter, logg)
	authenticated := middleware.Auth(cfg.JWT, d.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis, d.Uploads))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	mountUploads(r, cfg.Storage.PublicBaseURL, d.Uploads)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.With(authenticated).Post("/logout", controllers.AuthLogout(d.Auth, logg))
		r.With(authenticated).Get("/session", controllers.AuthSession(d.Auth, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated)

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(d.Products, logg))
			r.Post("/", controllers.ProductCreate(d.Products, logg))
			r.Get("/stats", controllers.ProductStats(d.Stats, logg))
			r.Post("/batch", controllers.ProductBatch(d.Products, logg))
			r.Get("/{id}", controllers.ProductGet(d.Products, logg))
			r.Put("/{id}", controllers.ProductUpdate(d.Products, logg))
			r.Delete("/{id}", controllers.ProductDelete(d.Products, logg))
		})

		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryChildren(d.Categories, logg))
			r.Get("/path", controllers.CategoryPath(d.Categories, logg))
		})

		r.Route("/api/media", func(r chi.Router) {
			r.Get("/", controllers.MediaList(d.Media, logg))
			r.Delete("/", controllers.MediaBulkDelete(d.Media, logg))
			upload := controllers.MediaUpload(d.Media, maxUploadBytes(cfg.Media), logg)
			r.Post("/", upload)
			r.Post("/upload", upload)
			// Folders are derived, so creating one means moving items into it.
			move := controllers.MediaMove(d.Media, logg)
			r.Post("/move", move)
			r.Post("/folders", move)
			r.Get("/folders", controllers.MediaFolders(d.Media, logg))
			r.Put("/folders", controllers.MediaRenameFolder(d.Media, logg))
			r.Delete("/folders", controllers.MediaDeleteFolder(d.Media, logg))
			r.Delete("/{id}", controllers.MediaDelete(d.Media, logg))
		})

		r.Route("/api/product-groups", func(r chi.Router) {
			r.Get("/", controllers.GroupList(d.Groups, logg))
			r.Post("/", controllers.GroupCreate(d.Groups, logg))
			r.Delete("/{id}", controllers.GroupDelete(d.Groups, logg))
		})

		r.Route("/api/admin/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleTeacher))
			r.Get("/", controllers.AdminUserList(d.Users, logg))
			r.Post("/", controllers.AdminUserCreate(d.Users, logg))
			r.Put("/{id}/limits", controllers.AdminUserUpdateLimits(d.Users, logg))
		})
	})

	return r
}

func maxUploadBytes(cfg config.MediaConfig) int64 {
	mb := cfg.VideoMaxMB
	if cfg.ImageMaxMB > mb {
		mb = cfg.ImageMaxMB
	}
	return int64(mb) << 20
}

// mountUploads serves stored files when the public URL is a local path.
// Directory listings are not exposed.
func mountUploads(r chi.Router, publicBaseURL string, volume UploadVolume) {
	prefix := strings.TrimRight(publicBaseURL, "/")
	if volume == nil || !strings.HasPrefix(prefix, "/") {
		return
	}
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(volume.Root())))
	r.Handle(prefix+"/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		files.ServeHTTP(w, req)
	}))
}
