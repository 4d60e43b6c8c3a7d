package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "med-schedule/internal/adapters/storage/memory"
	pg "med-schedule/internal/adapters/storage/postgres"
	"med-schedule/internal/domain/courses"
	"med-schedule/internal/domain/intakes"
	"med-schedule/internal/domain/prescriptions"
	"med-schedule/internal/middleware"
	"med-schedule/internal/platform/logger"
	"med-schedule/internal/ports/auth"
	"med-schedule/internal/ports/reminders"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: gateway de recordatorios. nil => Noop.
	Reminders reminders.Scheduler

	// Opcional: nil => logger desde env.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		courseRepo courses.Repository
		intakeRepo intakes.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, using in-memory repos", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		courseRepo = pg.NewCoursesRepo(db)
		intakeRepo = pg.NewIntakesRepo(db)
	} else {
		courseRepo = mem.NewCourseRepo()
		intakeRepo = mem.NewIntakeRepo()
	}

	// Services por módulo
	coursesSvc := courses.NewService(courseRepo, opts.Reminders)
	intakesSvc := intakes.NewService(intakeRepo, coursesSvc)
	prescriptionsSvc := prescriptions.NewService()

	// Rutas por módulo
	prescriptions.RegisterRoutes(r, prescriptionsSvc)
	courses.RegisterRoutes(r, coursesSvc)
	intakes.RegisterRoutes(r, intakesSvc)

	return r
}
