package handlers

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/medipulse/medipulse-api/ai"
	"github.com/medipulse/medipulse-api/api"
	"github.com/medipulse/medipulse-api/api/scheduler"
	"github.com/medipulse/medipulse-api/config"
	"github.com/medipulse/medipulse-api/databases"
	"github.com/medipulse/medipulse-api/emergency"
)

// App stores the router, db connection and the emergency case store, so it
// can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Cases    *emergency.Store
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian(a.Config.JWTSecret)

	// base router already serves /health
	r := api.New()

	hub := NewEmergencyHub()

	var assistant ai.Assistant
	if client := ai.NewClient(os.Getenv("AI_API_KEY")); client != nil {
		assistant = client
	}

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	d := Doctor{DB: databases.NewUserDatabase(a.dbHelper)}
	p := Patient{DB: databases.NewUserDatabase(a.dbHelper)}
	e := Emergency{Svc: emergency.NewService(a.Cases), Hub: hub}
	assist := AI{Assistant: assistant}
	cloudinaryHandler := CloudinaryHandler{Config: a.Config}

	// live emergency feed for dashboards
	r.HandleFunc("/ws/emergencies", hub.ServeWS)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/register", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/auth/me", api.Middleware(http.HandlerFunc(u.MeHandler))).Methods("GET")

	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UpdateProfileHandler))).Methods("PUT")

	apiCreate.Handle("/doctors", api.Middleware(http.HandlerFunc(d.DoctorsHandler))).Methods("GET")
	apiCreate.Handle("/doctor/{doctor_id}", api.Middleware(http.HandlerFunc(d.DoctorByIDHandler))).Methods("GET")

	apiCreate.Handle("/patients", api.Middleware(http.HandlerFunc(p.PatientsHandler))).Methods("GET")
	apiCreate.Handle("/patients/search", api.Middleware(http.HandlerFunc(p.PatientSearchHandler))).Methods("GET")
	apiCreate.Handle("/patient/{patient_id}", api.Middleware(http.HandlerFunc(p.PatientByIDHandler))).Methods("GET")

	apiCreate.Handle("/emergencies", api.Middleware(http.HandlerFunc(e.CreateEmergencyHandler))).Methods("POST")
	apiCreate.Handle("/emergencies", api.Middleware(http.HandlerFunc(e.EmergenciesHandler))).Methods("GET")
	apiCreate.Handle("/emergencies/{emergency_id}", api.Middleware(http.HandlerFunc(e.UpdateEmergencyHandler))).Methods("PUT")

	apiCreate.Handle("/ai/summarize-report", api.Middleware(http.HandlerFunc(assist.SummarizeReportHandler))).Methods("POST")
	apiCreate.Handle("/ai/chat", api.Middleware(http.HandlerFunc(assist.ChatHandler))).Methods("POST")
	apiCreate.Handle("/ai/explain-terms", api.Middleware(http.HandlerFunc(assist.ExplainTermsHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("medipulse-api has connected to the database")

	a.Cases = emergency.NewStore()

	// initialize api router
	a.initializeRoutes()

	// background sweep for stale critical cases
	sched := scheduler.New(a.Cases)
	sched.Start()

	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}
