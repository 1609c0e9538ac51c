package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	httpapi "github.com/collabforge/collabforge-backend/internal/api/http"
	"github.com/collabforge/collabforge-backend/internal/api/http/middleware"
	collabhttp "github.com/collabforge/collabforge-backend/internal/collaboration/http"
	collabservice "github.com/collabforge/collabforge-backend/internal/collaboration/service"
	featuredhttp "github.com/collabforge/collabforge-backend/internal/featured/http"
	featuredservice "github.com/collabforge/collabforge-backend/internal/featured/service"
	"github.com/collabforge/collabforge-backend/internal/identity"
	projecthttp "github.com/collabforge/collabforge-backend/internal/projects/http"
	projectservice "github.com/collabforge/collabforge-backend/internal/projects/service"
	userhttp "github.com/collabforge/collabforge-backend/internal/users/http"
	userservice "github.com/collabforge/collabforge-backend/internal/users/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool // nil when running on in-memory stores

	Users          *userservice.UserService
	Projects       *projectservice.ProjectService
	Collaborations *collabservice.Workflow
	Featured       *featuredservice.FeaturedService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.Default())
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rate.Limit(50), 100))
	api.Use(identity.Required())

	usersGroup := api.Group("/users")
	userhttp.Register(usersGroup, dep.Users)
	featuredhttp.Register(usersGroup, dep.Featured)

	projecthttp.Register(api.Group("/projects"), dep.Projects)
	collabhttp.Register(api.Group("/collaborations"), dep.Collaborations)

	return r
}
