package httpserver

import (
	"net/http"
	"strconv"

	"github.com/bryanwahyu/millwatt/internal/application/analytics"
	"github.com/bryanwahyu/millwatt/internal/application/audio"
	"github.com/bryanwahyu/millwatt/internal/application/bills"
	appidentity "github.com/bryanwahyu/millwatt/internal/application/identity"
	"github.com/bryanwahyu/millwatt/internal/domain/identity"
	"github.com/bryanwahyu/millwatt/internal/middleware"
)

// POST /v1/auth/signup
func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) error {
	var cmd appidentity.SignupCommand
	if err := decodeJSON(req, &cmd); err != nil {
		return err
	}
	cmd.FullName = middleware.SanitizeString(cmd.FullName)
	cmd.CompanyName = middleware.SanitizeString(cmd.CompanyName)
	if err := middleware.ValidateEmail(cmd.Email); err != nil {
		return errBadRequest(err.Error())
	}
	sess, err := r.accounts.Signup(req.Context(), cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, sess)
}

// POST /v1/auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	if body.Email == "" || body.Password == "" {
		return errBadRequest("email and password are required")
	}
	sess, err := r.accounts.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess)
}

// GET /v1/profile
func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) error {
	p, err := r.accounts.Profile(req.Context(), uid(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// DELETE /v1/profile
func (r *Router) handleDeleteProfile(w http.ResponseWriter, req *http.Request) error {
	if err := r.accounts.DeleteAccount(req.Context(), uid(req)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/company
func (r *Router) handleGetCompany(w http.ResponseWriter, req *http.Request) error {
	c, err := r.accounts.Company(req.Context(), uid(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// PUT /v1/company
func (r *Router) handleSaveCompany(w http.ResponseWriter, req *http.Request) error {
	var body identity.Company
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	body.CompanyName = middleware.SanitizeString(body.CompanyName)
	body.GSTIN = middleware.SanitizeString(body.GSTIN)
	c, err := r.accounts.SaveCompany(req.Context(), uid(req), body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /v1/bills/scan
// Body: multipart "file" (+ "locale") or JSON {"data","mimeType","locale"}
func (r *Router) handleBillScan(w http.ResponseWriter, req *http.Request) (err error) {
	up, err := r.readUpload(w, req, middleware.MediaImage)
	if err != nil {
		return err
	}
	done := middleware.TrackAnalysis()
	defer func() { done(err) }()

	res, err := r.bills.Scan(req.Context(), bills.ScanCommand{
		UserID:   uid(req),
		Image:    up.Data,
		MimeType: up.MimeType,
		Locale:   up.Locale,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /v1/audio/diagnose
func (r *Router) handleAudioDiagnose(w http.ResponseWriter, req *http.Request) (err error) {
	up, err := r.readUpload(w, req, middleware.MediaAudio)
	if err != nil {
		return err
	}
	done := middleware.TrackAnalysis()
	defer func() { done(err) }()

	res, err := r.audio.Diagnose(req.Context(), audio.DiagnoseCommand{
		UserID:   uid(req),
		Audio:    up.Data,
		MimeType: up.MimeType,
		Locale:   up.Locale,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/analyses?page=&page_size=
func (r *Router) handleAnalysesList(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.analyses.Paginate(req.Context(), uid(req), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/analytics/energy
func (r *Router) handleEnergySeries(w http.ResponseWriter, req *http.Request) error {
	s, err := r.analytics.EnergySeries(req.Context(), uid(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, s)
}

// POST /v1/analytics/energy
func (r *Router) handleRecordEnergy(w http.ResponseWriter, req *http.Request) error {
	var in analytics.LogEntry
	if err := decodeJSON(req, &in); err != nil {
		return err
	}
	in.Name = middleware.SanitizeString(in.Name)
	l, err := r.analytics.RecordEnergy(req.Context(), uid(req), in)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, l)
}

// GET /v1/analytics/report
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	rep, err := r.analytics.Report(req.Context(), uid(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}
