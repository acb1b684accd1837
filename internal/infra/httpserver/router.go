package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/millwatt/internal/application/analytics"
	"github.com/bryanwahyu/millwatt/internal/application/audio"
	"github.com/bryanwahyu/millwatt/internal/application/bills"
	appidentity "github.com/bryanwahyu/millwatt/internal/application/identity"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/domain/analysis"
	"github.com/bryanwahyu/millwatt/internal/domain/identity"
	"github.com/bryanwahyu/millwatt/internal/domain/records"
	"github.com/bryanwahyu/millwatt/internal/middleware"
)

type BillScanner interface {
	Scan(ctx context.Context, cmd bills.ScanCommand) (*bills.ScanResult, error)
}

type AudioDiagnoser interface {
	Diagnose(ctx context.Context, cmd audio.DiagnoseCommand) (*audio.DiagnoseResult, error)
}

type Analytics interface {
	EnergySeries(ctx context.Context, uid string) (*analytics.Series, error)
	RecordEnergy(ctx context.Context, uid string, in analytics.LogEntry) (*records.EnergyLog, error)
	Report(ctx context.Context, uid string) (*analytics.Report, error)
}

type Accounts interface {
	Signup(ctx context.Context, cmd appidentity.SignupCommand) (*appidentity.Session, error)
	Login(ctx context.Context, email, password string) (*appidentity.Session, error)
	Profile(ctx context.Context, uid string) (*identity.UserProfile, error)
	DeleteAccount(ctx context.Context, uid string) error
	Company(ctx context.Context, uid string) (*identity.Company, error)
	SaveCompany(ctx context.Context, uid string, in identity.Company) (*identity.Company, error)
}

type AnalysisLister interface {
	Paginate(ctx context.Context, userID string, page, pageSize int) ([]*analysis.Analysis, error)
}

// Options holds everything the router needs. Nil services leave their routes unmounted.
type Options struct {
	Bills     BillScanner
	Audio     AudioDiagnoser
	Analytics Analytics
	Accounts  Accounts
	Analyses  AnalysisLister
	Tokens    middleware.TokenVerifier
	Checkers  map[string]middleware.HealthCheck

	AllowedOrigins []string
	MaxUploadBytes int64
	RateCapacity   int
	RateRefill     int
	Logger         zerolog.Logger

	// Context stops background work such as the rate limit sweeper. Nil means Background.
	Context context.Context
}

type Router struct {
	bills     BillScanner
	audio     AudioDiagnoser
	analytics Analytics
	accounts  Accounts
	analyses  AnalysisLister
	maxUpload int64
	log       zerolog.Logger
}

func NewRouter(opts Options) http.Handler {
	r := &Router{
		bills:     opts.Bills,
		audio:     opts.Audio,
		analytics: opts.Analytics,
		accounts:  opts.Accounts,
		analyses:  opts.Analyses,
		maxUpload: opts.MaxUploadBytes,
		log:       opts.Logger,
	}
	if r.maxUpload <= 0 {
		r.maxUpload = 10 << 20
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.RequestLogger(opts.Logger), middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		if r.accounts != nil {
			rt.Post("/auth/signup", r.wrap(r.handleSignup))
			rt.Post("/auth/login", r.wrap(r.handleLogin))
		}

		rt.Group(func(p chi.Router) {
			p.Use(middleware.BearerAuth(opts.Tokens))
			if opts.RateCapacity > 0 {
				p.Use(middleware.RateLimitMiddleware(ctx, opts.RateCapacity, opts.RateRefill))
			}

			if r.accounts != nil {
				p.Get("/profile", r.wrap(r.handleProfile))
				p.Delete("/profile", r.wrap(r.handleDeleteProfile))
				p.Get("/company", r.wrap(r.handleGetCompany))
				p.Put("/company", r.wrap(r.handleSaveCompany))
			}
			if r.bills != nil {
				p.Post("/bills/scan", r.wrap(r.handleBillScan))
			}
			if r.audio != nil {
				p.Post("/audio/diagnose", r.wrap(r.handleAudioDiagnose))
			}
			if r.analyses != nil {
				p.Get("/analyses", r.wrap(r.handleAnalysesList))
			}
			if r.analytics != nil {
				p.Get("/analytics/energy", r.wrap(r.handleEnergySeries))
				p.Post("/analytics/energy", r.wrap(r.handleRecordEnergy))
				p.Get("/analytics/report", r.wrap(r.handleReport))
			}
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks client input errors raised by the handlers themselves.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func errBadRequest(msg string) error { return &badRequest{msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, msg := statusFor(err)
			if status >= 500 {
				r.log.Error().Err(err).Str("path", req.URL.Path).Str("request_id", chimw.GetReqID(req.Context())).Msg("request failed")
			}
			writeJSON(w, status, errorBody{Error: msg, Kind: kindName(err)})
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func kindName(err error) string {
	if k := ai.KindOf(err); k != 0 {
		return k.String()
	}
	return ""
}

// statusFor maps every error the services return onto an HTTP status.
func statusFor(err error) (int, string) {
	var br *badRequest
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, br.msg
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "upload too large"
	}

	switch ai.KindOf(err) {
	case ai.KindConfiguration:
		return http.StatusServiceUnavailable, "ai service is not configured"
	case ai.KindInvalidRequest:
		return http.StatusBadRequest, err.Error()
	case ai.KindExhausted:
		if errors.Is(err, ai.ErrQuotaExceeded) {
			return http.StatusTooManyRequests, "ai quota exceeded"
		}
		return http.StatusBadGateway, "no ai model produced an answer"
	case ai.KindTransport:
		return http.StatusBadGateway, "ai backend failed"
	case ai.KindMalformed:
		return http.StatusUnprocessableEntity, "ai response could not be read"
	}

	switch {
	case errors.Is(err, appidentity.ErrInvalidInput), errors.Is(err, analytics.ErrInvalidEntry):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, appidentity.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, appidentity.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, appidentity.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeJSON(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errBadRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func uid(req *http.Request) string { return middleware.GetUserFromContext(req.Context()) }
