package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/wash24-admin/api"
	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/jrsteele09/wash24-admin/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	msgLoginFailed     = "Login failed. Please try again."
	msgUnexpectedError = "An error occurred. Please try again."
	msgMissingFields   = "Email and password are required"
)

var validate = validator.New()

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
}

// loginResult is the JSON answer to a JSON login submission.
type loginResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// LoginPageHandler displays the login page (GET /auth/login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, s.pages.login, http.StatusOK, LoginPageData{
			AppName: s.appName,
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		})
	}
}

// LoginSubmissionHandler exchanges the submitted credentials with the
// backend. Only a complete success touches the credential store.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asJSON := isJSONRequest(r)

		creds, err := readCredentials(r, asJSON)
		if err != nil {
			s.loginFailed(w, r, asJSON, http.StatusBadRequest, "Invalid form data", creds.Email)
			return
		}
		if err := validateCredentials(creds); err != nil {
			log.Debug().Err(err).Msg("Login submission rejected")
			s.loginFailed(w, r, asJSON, http.StatusOK, loginErrorMessage(err), creds.Email)
			return
		}

		rs := s.bindSession(w, r, RouteAuthLogin)
		resp, err := rs.client.Login(r.Context(), s.loginRole, creds)
		if err != nil {
			metrics.Logins.WithLabelValues(metrics.LoginError).Inc()
			log.Err(err).Str("email", creds.Email).Msg("Login request failed")
			s.loginFailed(w, r, asJSON, http.StatusOK, loginErrorMessage(err), creds.Email)
			return
		}

		if !resp.Success {
			metrics.Logins.WithLabelValues(metrics.LoginRejected).Inc()
			msg := resp.Message
			if msg == "" {
				msg = msgLoginFailed
			}
			s.loginFailed(w, r, asJSON, http.StatusOK, msg, creds.Email)
			return
		}

		if err := rs.store.Set(r.Context(), resp.LoginData.User, resp.LoginData.Token.Token); err != nil {
			metrics.Logins.WithLabelValues(metrics.LoginError).Inc()
			log.Err(err).Str("email", creds.Email).Msg("Failed to persist session")
			s.loginFailed(w, r, asJSON, http.StatusOK, msgUnexpectedError, creds.Email)
			return
		}

		metrics.Logins.WithLabelValues(metrics.LoginSuccess).Inc()
		log.Info().Str("user_id", resp.LoginData.User.ID).Msg("Admin logged in")

		if asJSON {
			writeJSON(w, http.StatusOK, loginResult{Success: true, Redirect: RouteHome})
			return
		}
		redirectSuccess(w, r, RouteHome)
	}
}

// LogoutHandler ends the session and returns to the login page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.bindSession(w, r, r.URL.Path)
		s.logout(r.Context(), rs)
		redirectSuccess(w, r, RouteAuthLogin)
	}
}

func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, asJSON bool, status int, msg, email string) {
	if asJSON {
		writeJSON(w, status, loginResult{Message: msg})
		return
	}
	render(w, s.pages.login, status, LoginPageData{AppName: s.appName, Error: msg, Email: email})
}

// loginErrorMessage prefers the backend's message, falls back to a generic
// one for transport failures and flags anything else as unexpected.
func loginErrorMessage(err error) string {
	var statusErr *api.StatusError
	switch {
	case errors.Is(err, apperrors.ErrMissingCredentials):
		return msgMissingFields
	case errors.As(err, &statusErr):
		if statusErr.Message != "" {
			return statusErr.Message
		}
		return msgLoginFailed
	case errors.Is(err, apperrors.ErrIncompleteLogin):
		return msgUnexpectedError
	default:
		return msgLoginFailed
	}
}

// validateCredentials checks required fields before anything reaches the
// backend.
func validateCredentials(creds api.Credentials) error {
	if err := validate.Struct(creds); err != nil {
		return apperrors.Wrapf(apperrors.ErrMissingCredentials, "[validateCredentials] %v", err)
	}
	return nil
}

func readCredentials(r *http.Request, asJSON bool) (api.Credentials, error) {
	var creds api.Credentials
	if asJSON {
		err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&creds)
		return creds, err
	}
	if err := r.ParseForm(); err != nil {
		return creds, err
	}
	creds.Email = r.FormValue("email")
	creds.Password = r.FormValue("password")
	return creds, nil
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}
