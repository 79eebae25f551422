package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/notify"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/store"
)

// DefaultHeartbeat is how often an idle event stream gets a keep-alive comment.
const DefaultHeartbeat = 15 * time.Second

type RouterConfig struct {
	Service *planner.Service
	Hub     *notify.Hub
	Log     *logger.Logger

	CORSOrigins   []string
	DefaultTenant store.Tenant
	ServiceName   string

	// Location is used to read ?date= query values. Default: time.Local.
	Location  *time.Location
	Heartbeat time.Duration
}

type handler struct {
	svc       *planner.Service
	hub       *notify.Hub
	log       *logger.Logger
	loc       *time.Location
	heartbeat time.Duration
}

// NewRouter builds the JSON API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	h := &handler{
		svc:       cfg.Service,
		hub:       cfg.Hub,
		log:       logger.OrNop(cfg.Log).With("component", "httpapi"),
		loc:       cfg.Location,
		heartbeat: cfg.Heartbeat,
	}
	if h.loc == nil {
		h.loc = time.Local
	}
	if h.heartbeat <= 0 {
		h.heartbeat = DefaultHeartbeat
	}
	if h.hub == nil {
		h.hub = notify.NewHub(cfg.Log)
	}
	def := cfg.DefaultTenant
	if def == "" {
		def = store.DefaultTenant
	}
	name := cfg.ServiceName
	if name == "" {
		name = "studyplan"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(name))
	r.Use(requestLogger(h.log))
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	api.Use(withTenant(def))
	{
		api.GET("/snapshot", h.snapshot)

		api.GET("/subjects", h.listSubjects)
		api.POST("/subjects", h.addSubject)
		api.PATCH("/subjects/:id", h.updateSubject)
		api.DELETE("/subjects/:id", h.removeSubject)
		api.POST("/subjects/:id/topics", h.addTopic)
		api.DELETE("/subjects/:id/topics/:topicID", h.removeTopic)
		api.POST("/subjects/:id/topics/:topicID/complete", h.completeTopic)

		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.updateSettings)
		api.PUT("/settings/study-days", h.setStudyDays)

		api.POST("/schedule/generate", h.generate)
		api.GET("/blocks", h.listBlocks)
		api.POST("/blocks/:id/complete", h.completeBlock)
		api.POST("/blocks/:id/skip", h.skipBlock)
		api.DELETE("/blocks/:id", h.removeBlock)

		api.GET("/today", h.today)
		api.GET("/week", h.week)
		api.GET("/progress", h.progress)

		api.GET("/alerts", h.listAlerts)
		api.POST("/alerts", h.addAlert)
		api.POST("/alerts/:id/read", h.readAlert)

		api.POST("/import", h.importSyllabus)

		api.GET("/events", h.events)
	}
	return r
}
