package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aptiprep/backend/internal/auth"
)

// NewRouter wires every route. Reads are open to anonymous callers unless a
// route needs a user; writes need a bearer token, admin writes an admin role.
func NewRouter(h *Handler, tokens *auth.TokenService, corsOrigins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, Logging(logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(auth.Authenticate(tokens))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Auth
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.With(auth.RequireUser).Get("/auth/me", h.me)

	// Questions
	r.Route("/questions", func(qr chi.Router) {
		qr.Get("/", h.listQuestions)
		qr.Get("/random", h.randomQuestion)
		qr.Get("/{n}", h.getQuestion)
		qr.Post("/{n}/check", h.checkAnswer)
		qr.With(auth.RequireUser).Post("/{n}/solved", h.markSolved)

		qr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireAdmin)
			ar.Post("/", h.createQuestion)
			ar.Put("/{n}", h.updateQuestion)
			ar.Delete("/{n}", h.deleteQuestion)
		})
	})

	// Dashboard
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Use(auth.RequireUser)
		dr.Get("/progress", h.getProgress)
		dr.Get("/activity", h.getActivity)
		dr.Get("/solved", h.getSolved)
	})

	// Lists
	r.Route("/lists", func(lr chi.Router) {
		lr.Get("/public", h.listPublicLists)

		lr.Group(func(ur chi.Router) {
			ur.Use(auth.RequireUser)
			ur.Get("/", h.listMyLists)
			ur.Post("/", h.createList)
			ur.Get("/saved", h.listSavedLists)
			ur.Get("/favorites", h.getFavorites)
			ur.Get("/{id}", h.getList)
			ur.Put("/{id}", h.updateList)
			ur.Delete("/{id}", h.deleteList)
			ur.Post("/{id}/questions", h.addListQuestion)
			ur.Delete("/{id}/questions/{n}", h.removeListQuestion)
			ur.Post("/{id}/save", h.toggleListSave)
			ur.Post("/{id}/fork", h.forkList)
		})
	})

	// Question lists
	r.Route("/questionlists", func(qr chi.Router) {
		qr.Get("/", h.browseQuestionLists)
		qr.Get("/{id}", h.getQuestionList)

		qr.Group(func(ur chi.Router) {
			ur.Use(auth.RequireUser)
			ur.Post("/", h.createQuestionList)
			ur.Get("/mine", h.myQuestionLists)
			ur.Get("/saved", h.savedQuestionLists)
			ur.Put("/{id}", h.updateQuestionList)
			ur.Delete("/{id}", h.deleteQuestionList)
			ur.Post("/{id}/like", h.toggleQuestionListLike)
			ur.Post("/{id}/save", h.toggleQuestionListSave)
		})
	})

	// Discussions
	r.Route("/discussions", func(dr chi.Router) {
		dr.Get("/", h.listDiscussions)
		dr.Get("/{id}", h.getDiscussion)

		dr.Group(func(ur chi.Router) {
			ur.Use(auth.RequireUser)
			ur.Post("/", h.createDiscussion)
			ur.Patch("/{id}", h.updateDiscussion)
			ur.Delete("/{id}", h.deleteDiscussion)
			ur.Post("/{id}/react", h.reactToDiscussion)
			ur.Post("/{id}/replies", h.addReply)
			ur.Delete("/{id}/replies/{replyID}", h.deleteReply)
			ur.Post("/{id}/replies/{replyID}/react", h.reactToReply)
			ur.With(auth.RequireAdmin).Post("/{id}/pin", h.togglePin)
		})
	})

	// Catalog
	r.Get("/courses", h.listCourses)
	r.Get("/courses/{id}", h.getCourse)
	r.Get("/subjects/{id}", h.getSubject)
	r.Get("/topics/{id}", h.getTopic)
	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireAdmin)
		ar.Post("/courses", h.createCourse)
		ar.Put("/courses/{id}", h.updateCourse)
		ar.Delete("/courses/{id}", h.deleteCourse)
		ar.Post("/courses/{id}/subjects", h.createSubject)
		ar.Put("/subjects/{id}", h.renameSubject)
		ar.Delete("/subjects/{id}", h.deleteSubject)
		ar.Post("/subjects/{id}/topics", h.createTopic)
		ar.Put("/topics/{id}", h.renameTopic)
		ar.Delete("/topics/{id}", h.deleteTopic)

		ar.Get("/admin/export", h.exportAll)
		ar.Post("/admin/import", h.importAll)
	})

	// Notifications
	r.Route("/notifications", func(nr chi.Router) {
		nr.Use(auth.RequireUser)
		nr.Get("/", h.listNotifications)
		nr.Post("/{id}/read", h.markNotificationRead)
	})

	return r
}
