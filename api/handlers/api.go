package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api"
	"github.com/BaselBoulos/la-maison-privee/config"
	"github.com/BaselBoulos/la-maison-privee/databases"
	"github.com/BaselBoulos/la-maison-privee/email"
	"github.com/BaselBoulos/la-maison-privee/models"
	"github.com/BaselBoulos/la-maison-privee/tenant"
	"github.com/BaselBoulos/la-maison-privee/upload"
)

// requestTimeout caps how long a single API request may run
const requestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Hub      *LiveHub
	Metrics  *api.MetricsCollector
	Sender   email.Sender
	Uploader upload.Uploader
	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	if a.Hub == nil {
		a.Hub = NewLiveHub()
	}
	if a.Metrics == nil {
		a.Metrics = api.NewMetricsCollector(1000)
	}
	if a.Sender == nil {
		a.Sender = email.LogSender{}
	}

	tokens := tenant.NewTokens(a.Config.JWTSecret, a.Config.JWTTTL)
	auth := api.Auth{Tokens: tokens}
	limiter := api.NewRateLimiter(6*time.Second, 10)
	scope := Scope{Resolver: tenant.Resolver{DefaultClubID: a.Config.DefaultClubID}}

	adminDB := databases.NewAdminDatabase(a.dbHelper)
	clubDB := databases.NewClubDatabase(a.dbHelper)
	memberDB := databases.NewMemberDatabase(a.dbHelper)
	eventDB := databases.NewEventDatabase(a.dbHelper)
	codeDB := databases.NewInvitationCodeDatabase(a.dbHelper)
	interestDB := databases.NewInterestDatabase(a.dbHelper)

	basic := api.NewBasicAuth(adminDB, tokens)
	au := Auth{DB: adminDB, Tokens: tokens}
	c := Club{Scope: scope, DB: clubDB}
	m := Member{Scope: scope, DB: memberDB, EDB: eventDB, IDB: interestDB, CDB: codeDB, CodePrefix: a.Config.InviteCodePrefix}
	e := Event{Scope: scope, DB: eventDB, MDB: memberDB, IDB: interestDB, Hub: a.Hub}
	live := Live{Scope: scope, Hub: a.Hub}
	ic := InvitationCode{Scope: scope, DB: codeDB, Prefix: a.Config.InviteCodePrefix}
	i := Interest{Scope: scope, DB: interestDB, MDB: memberDB}
	b := Bulk{Scope: scope, DB: memberDB, EDB: eventDB, IDB: interestDB}
	comm := Communication{Scope: scope, Members: m, CDB: clubDB, RDB: databases.NewEmailRecordDatabase(a.dbHelper), Sender: a.Sender}
	up := Upload{Uploader: a.Uploader}
	metrics := Metrics{Collector: a.Metrics}

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(h)
	}
	super := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(api.RequireSuper(h))
	}
	public := func(h http.HandlerFunc) http.Handler {
		return auth.Optional(h)
	}

	r := mux.NewRouter()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api").Subrouter()

	apiCreate.Handle("/auth/login", limiter.Middleware(http.HandlerFunc(au.LoginHandler))).Methods("POST")
	apiCreate.Handle("/auth/token", limiter.Middleware(http.HandlerFunc(basic.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/register", super(au.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/verify", protect(au.VerifyHandler)).Methods("GET")

	apiCreate.Handle("/metrics", super(metrics.MetricsDashboardHandler)).Methods("GET")

	apiCreate.Handle("/clubs", protect(c.ClubsHandler)).Methods("GET")
	apiCreate.Handle("/clubs", super(c.CreateClubHandler)).Methods("POST")
	apiCreate.Handle("/clubs/current", protect(c.CurrentClubHandler)).Methods("GET")
	apiCreate.Handle("/clubs/current", protect(c.UpdateCurrentClubHandler)).Methods("PUT")
	apiCreate.Handle("/clubs/{id:[0-9]+}", super(c.DeleteClubHandler)).Methods("DELETE")
	apiCreate.Handle("/clubs/{clubId:[0-9]+}/interests", public(i.ClubInterestsHandler)).Methods("GET")

	apiCreate.Handle("/members", protect(m.MembersHandler)).Methods("GET")
	apiCreate.Handle("/members", protect(m.CreateMemberHandler)).Methods("POST")
	apiCreate.Handle("/members/filtered", protect(m.FilteredMembersHandler)).Methods("GET")
	apiCreate.Handle("/members/{id}", protect(m.MemberHandler)).Methods("GET")
	apiCreate.Handle("/members/{id}", protect(m.UpdateMemberHandler)).Methods("PUT")
	apiCreate.Handle("/members/{id}", protect(m.DeleteMemberHandler)).Methods("DELETE")
	apiCreate.Handle("/members/{id}/tier", protect(m.MemberTierHandler)).Methods("GET")

	apiCreate.Handle("/events/live", protect(live.LiveEventsHandler)).Methods("GET")
	apiCreate.Handle("/events", protect(e.EventsHandler)).Methods("GET")
	apiCreate.Handle("/events", protect(e.CreateEventHandler)).Methods("POST")
	apiCreate.Handle("/events/{id}", protect(e.EventHandler)).Methods("GET")
	apiCreate.Handle("/events/{id}", protect(e.UpdateEventHandler)).Methods("PUT")
	apiCreate.Handle("/events/{id}", protect(e.DeleteEventHandler)).Methods("DELETE")
	apiCreate.Handle("/events/{id}/rsvp", protect(e.RSVPHandler)).Methods("POST")
	apiCreate.Handle("/events/{id}/waitlist", protect(e.AddToWaitlistHandler)).Methods("POST")
	apiCreate.Handle("/events/{id}/waitlist/promote", protect(e.PromoteWaitlistHandler)).Methods("POST")
	apiCreate.Handle("/events/{id}/waitlist/{memberId}", protect(e.RemoveFromWaitlistHandler)).Methods("DELETE")
	apiCreate.Handle("/events/{id}/attendance", protect(e.AttendanceHandler)).Methods("GET")
	apiCreate.Handle("/events/{id}/attendance", protect(e.MarkAttendanceHandler)).Methods("POST")
	apiCreate.Handle("/events/{id}/attendance/bulk", protect(e.BulkAttendanceHandler)).Methods("POST")

	apiCreate.Handle("/invitation-codes", protect(ic.InvitationCodesHandler)).Methods("GET")
	apiCreate.Handle("/invitation-codes/generate", protect(ic.GenerateInvitationCodesHandler)).Methods("POST")
	apiCreate.Handle("/invitation-codes/verify", limiter.Middleware(public(ic.VerifyInvitationCodeHandler))).Methods("POST")
	apiCreate.Handle("/invitation-codes/{id}", protect(ic.InvitationCodeHandler)).Methods("GET")
	apiCreate.Handle("/invitation-codes/{id}", protect(ic.RevokeInvitationCodeHandler)).Methods("DELETE")

	apiCreate.Handle("/interests", protect(i.InterestsHandler)).Methods("GET")
	apiCreate.Handle("/interests", protect(i.CreateInterestHandler)).Methods("POST")
	apiCreate.Handle("/interests/all", protect(i.AllInterestsHandler)).Methods("GET")
	apiCreate.Handle("/interests/{id}", protect(i.UpdateInterestHandler)).Methods("PUT")
	apiCreate.Handle("/interests/{id}", protect(i.DeleteInterestHandler)).Methods("DELETE")

	apiCreate.Handle("/bulk/members/status", protect(b.BulkStatusHandler)).Methods("POST")
	apiCreate.Handle("/bulk/members/interests/assign", protect(b.BulkAssignInterestsHandler)).Methods("POST")
	apiCreate.Handle("/bulk/members/interests/remove", protect(b.BulkRemoveInterestsHandler)).Methods("POST")
	apiCreate.Handle("/bulk/members/delete", protect(b.BulkDeleteHandler)).Methods("POST")

	apiCreate.Handle("/communication/email/member", protect(comm.EmailMemberHandler)).Methods("POST")
	apiCreate.Handle("/communication/email/bulk", protect(comm.EmailBulkHandler)).Methods("POST")
	apiCreate.Handle("/communication/email/filtered", protect(comm.EmailFilteredHandler)).Methods("POST")
	apiCreate.Handle("/communication/email/history", protect(comm.EmailHistoryHandler)).Methods("GET")
	apiCreate.Handle("/communication/email/history/member/{memberId}", protect(comm.MemberEmailHistoryHandler)).Methods("GET")

	apiCreate.Handle("/upload/image", protect(up.UploadImageHandler)).Methods("POST")
	apiCreate.Handle("/upload/images", protect(up.UploadImagesHandler)).Methods("POST")

	return r
}

// Handler wraps the router in the middlewares that must also see requests
// no route matches, such as CORS preflights
func (a *App) Handler() http.Handler {
	var h http.Handler = a.Router
	h = api.TimeoutMiddleware(requestTimeout)(h)
	h = api.MetricsMiddleware(a.Metrics)(h)
	return api.CORS(a.Config.AllowedOrigins)(h)
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	if err = client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	zap.S().Info("la-maison-privee has connected to the database")

	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().Errorw("failed to create indexes", "error", err)
		return err
	}
	if err := a.seed(ctx); err != nil {
		return err
	}

	a.Sender = email.New(a.Config.SendGridAPIKey, a.Config.EmailFrom, a.Config.EmailFromName)
	if a.Config.CloudinaryURL != "" {
		cld, err := upload.NewCloudinary(a.Config.CloudinaryURL, a.Config.CloudinaryFolder)
		if err != nil {
			return err
		}
		a.Uploader = cld
	} else {
		zap.S().Warn("CLOUDINARY_URL is not set, image uploads are disabled")
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// DB returns the database handle opened by Initialize
func (a *App) DB() databases.DatabaseHelper {
	return a.dbHelper
}

// Close disconnects from the database and stops background collectors
func (a *App) Close(ctx context.Context) error {
	if a.Metrics != nil {
		a.Metrics.Stop()
	}
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func (a *App) seed(ctx context.Context) error {
	if a.Config.SeedFile == "" {
		return nil
	}
	data, err := databases.LoadSeed(a.Config.SeedFile)
	if err != nil {
		zap.S().Warnw("skipping seed data", "file", a.Config.SeedFile, "error", err)
		return nil
	}
	seeder := databases.Seeder{
		Clubs:     databases.NewClubDatabase(a.dbHelper),
		Admins:    databases.NewAdminDatabase(a.dbHelper),
		Interests: databases.NewInterestDatabase(a.dbHelper),
	}
	return seeder.Apply(ctx, data)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
