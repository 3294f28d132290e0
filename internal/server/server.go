package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Pet-projects-for-experience/Backend/internal/auth"
	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/auth/session"
	"github.com/Pet-projects-for-experience/Backend/internal/config"
	"github.com/Pet-projects-for-experience/Backend/internal/lock"
	"github.com/Pet-projects-for-experience/Backend/internal/migration"
	"github.com/Pet-projects-for-experience/Backend/internal/notification"
	"github.com/Pet-projects-for-experience/Backend/internal/observability"
	obsmiddleware "github.com/Pet-projects-for-experience/Backend/internal/observability/logger"
	obsmetrics "github.com/Pet-projects-for-experience/Backend/internal/observability/metrics"
	obstracing "github.com/Pet-projects-for-experience/Backend/internal/observability/tracing"
	"github.com/Pet-projects-for-experience/Backend/internal/profile"
	profiledomain "github.com/Pet-projects-for-experience/Backend/internal/profile/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/project"
	projectdomain "github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	projectworker "github.com/Pet-projects-for-experience/Backend/internal/project/worker"
	"github.com/Pet-projects-for-experience/Backend/internal/proposal"
	proposaldomain "github.com/Pet-projects-for-experience/Backend/internal/proposal/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/reference"
	refdomain "github.com/Pet-projects-for-experience/Backend/internal/reference/domain"
)

var Module = fx.Module("http.server",
	lock.Module,
	migration.Module,
	fx.Provide(registerGin),
	auth.Module,
	reference.Module,
	profile.Module,
	project.Module,
	projectworker.Module,
	proposal.Module,
	notification.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	sessions    *session.Manager
	genID       *snowflake.Node
	authsvc     authdomain.Service
	referenceSv refdomain.Service
	profileSvc  profiledomain.Service
	projectSvc  projectdomain.Service
	proposalSvc proposaldomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Sessions     *session.Manager
	GenID        *snowflake.Node
	Authsvc      authdomain.Service
	ReferenceSvc refdomain.Service
	ProfileSvc   profiledomain.Service
	ProjectSvc   projectdomain.Service
	ProposalSvc  proposaldomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		sessions:    p.Sessions,
		genID:       p.GenID,
		authsvc:     p.Authsvc,
		referenceSv: p.ReferenceSvc,
		profileSvc:  p.ProfileSvc,
		projectSvc:  p.ProjectSvc,
		proposalSvc: p.ProposalSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/professions", s.ListProfessions)
	api.GET("/skills", s.ListSkills)

	projects := api.Group("/projects")
	projects.GET("/directions", s.ListDirections)

	projects.GET("", s.OptionalAuth(), s.ListProjects)
	projects.POST("", s.AuthRequired(), s.CreateProject)
	projects.GET("/preview_main", s.PreviewMain)

	projects.GET("/drafts", s.AuthRequired(), s.ListDrafts)
	projects.POST("/drafts", s.AuthRequired(), s.CreateDraft)
	projects.GET("/drafts/:id", s.AuthRequired(), s.GetDraft)
	projects.PATCH("/drafts/:id", s.AuthRequired(), s.UpdateDraft)
	projects.PUT("/drafts/:id", s.AuthRequired(), s.UpdateDraft)
	projects.DELETE("/drafts/:id", s.AuthRequired(), s.DeleteProject)

	projects.GET("/requests", s.AuthRequired(), s.ListRequests)
	projects.POST("/requests", s.AuthRequired(), s.CreateRequest)
	projects.GET("/requests/:id", s.AuthRequired(), s.GetRequest)
	projects.PATCH("/requests/:id/answer", s.AuthRequired(), s.AnswerRequest)

	projects.GET("/invitations", s.AuthRequired(), s.ListInvitations)
	projects.POST("/invitations", s.AuthRequired(), s.CreateInvitation)
	projects.GET("/invitations/:id", s.AuthRequired(), s.GetInvitation)
	projects.PATCH("/invitations/:id/answer", s.AuthRequired(), s.AnswerInvitation)

	projects.GET("/:id", s.OptionalAuth(), s.GetProject)
	projects.PATCH("/:id", s.AuthRequired(), s.UpdateProject)
	projects.PUT("/:id", s.AuthRequired(), s.UpdateProject)
	projects.DELETE("/:id", s.AuthRequired(), s.DeleteProject)
	projects.POST("/:id/favorite", s.AuthRequired(), s.AddFavorite)
	projects.DELETE("/:id/favorite", s.AuthRequired(), s.RemoveFavorite)
	projects.DELETE("/:id/exclude_participant/:participant_id", s.AuthRequired(), s.ExcludeParticipant)
	projects.GET("/:id/participants", s.OptionalAuth(), s.ListParticipants)

	api.GET("/profile", s.AuthRequired(), s.GetProfile)
	api.PATCH("/profile", s.AuthRequired(), s.UpdateProfile)
}
