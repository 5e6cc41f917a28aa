package handler

import "github.com/gin-gonic/gin"

// Routes groups the handlers mounted by the API server.
type Routes struct {
	Accounts      *AccountHandler
	Notes         *NoteHandler
	Consultations *ConsultationHandler
	Roster        *RosterHandler
	Metrics       *MetricsHandler
	// Actor guards routes that act on behalf of a user id.
	Actor gin.HandlerFunc
}

// Register mounts every route on r.
func (rt Routes) Register(r gin.IRouter) {
	actor := rt.Actor
	if actor == nil {
		actor = func(c *gin.Context) { c.Next() }
	}

	if rt.Metrics != nil {
		r.GET("/health", rt.Metrics.Health)
		r.GET("/ready", rt.Metrics.Ready)
		r.GET("/metrics", rt.Metrics.Prometheus)
		r.GET("/metrics/summary", rt.Metrics.Summary)
	}

	r.POST("/register", rt.Accounts.Register)
	r.POST("/login", rt.Accounts.Login)
	r.GET("/role/:user_id", rt.Accounts.Role)

	notes := r.Group("/api/notes")
	notes.POST("/upload", rt.Notes.Upload)
	notes.GET("/user/:user_id", rt.Notes.ListByUploader)
	notes.GET("/all", rt.Notes.ListAll)
	notes.GET("/download/:filename", rt.Notes.Download)
	notes.POST("/save", actor, rt.Notes.Save)
	notes.DELETE("/unsave/:user_id/:note_id", actor, rt.Notes.Unsave)
	notes.GET("/saved/:user_id", rt.Notes.ListSaved)
	notes.DELETE("/delete/:user_id/:note_id", actor, rt.Notes.Delete)

	consultations := r.Group("/consultations")
	consultations.POST("", rt.Consultations.Book)
	consultations.PUT("/update_status", rt.Consultations.UpdateStatus)
	consultations.GET("/faculty/:f_initial", rt.Consultations.ListForFaculty)
	consultations.GET("/:student_id", rt.Consultations.ListForStudent)
	consultations.GET("/:student_id/export", rt.Consultations.Export)
	consultations.DELETE("/:consultation_id", rt.Consultations.Delete)

	r.GET("/faculty/:f_id", rt.Roster.GetFaculty)
	r.GET("/faculties", rt.Roster.ListFaculties)
	r.GET("/consultation-managers", rt.Roster.ListManagers)
}
