// Package devbackend is a local stand-in for the Wash24 REST backend. It
// serves the login endpoint and the admin CRUD surface with canned data and
// real bearer checks, so the admin shell can run and be tested without the
// hosted API.
package devbackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/wash24-admin/api"
	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/jrsteele09/wash24-admin/internal/utils"
	"github.com/rs/zerolog/log"
)

const DefaultBasePath = "/api/v1"

type Backend struct {
	basePath string
	accounts *Accounts
	tokens   *Tokens

	agents     []api.AgentDetail
	categories []api.Category
	mu         sync.Mutex
}

type Option func(*Backend)

// WithBasePath mounts the API under path instead of /api/v1.
func WithBasePath(path string) Option {
	return func(b *Backend) { b.basePath = strings.TrimRight(path, "/") }
}

// WithTokenExpiry sets how long issued tokens stay valid.
func WithTokenExpiry(d time.Duration) Option {
	return func(b *Backend) { b.tokens.expiry = d }
}

func New(secret string, opts ...Option) *Backend {
	b := &Backend{
		basePath:   DefaultBasePath,
		accounts:   NewAccounts(),
		tokens:     NewTokens(secret, 24*time.Hour),
		agents:     fixtureAgents(),
		categories: fixtureCategories(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Accounts() *Accounts { return b.accounts }
func (b *Backend) Tokens() *Tokens     { return b.tokens }

// Handler returns the routed backend.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	p := b.basePath

	mux.HandleFunc("POST "+p+"/auth/login/{role}", b.login)
	mux.HandleFunc("POST "+p+"/auth/logout", b.authenticated(b.logout))
	mux.HandleFunc("GET "+p+"/admin/delivery-agents", b.authenticated(b.listAgents))
	mux.HandleFunc("GET "+p+"/admin/delivery-agent/{id}", b.authenticated(b.getAgent))
	mux.HandleFunc("POST "+p+"/admin/delivery-agent", b.authenticated(b.createAgent))
	mux.HandleFunc("PUT "+p+"/admin/delivery-agent/{id}", b.authenticated(b.updateAgent))
	mux.HandleFunc("GET "+p+"/admin/categories", b.authenticated(b.listCategories))
	mux.HandleFunc("PATCH "+p+"/admin/categories/{id}", b.authenticated(b.updateCategory))
	mux.HandleFunc("PATCH "+p+"/admin/services/{id}", b.authenticated(b.updateService))
	return mux
}

func (b *Backend) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, api.Envelope[any]{Message: "Authorization token required"})
			return
		}
		if _, err := b.tokens.Verify(raw); err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
			writeJSON(w, http.StatusUnauthorized, api.Envelope[any]{Message: "Invalid or expired token"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, api.LoginResponse{Message: "Invalid request body"})
		return
	}

	user, err := b.accounts.Authenticate(creds.Email, creds.Password, r.PathValue("role"))
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		writeJSON(w, http.StatusOK, api.LoginResponse{Message: "Invalid credentials"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.LoginResponse{Message: "Login failed"})
		return
	}

	token, err := b.tokens.Issue(user.ID, user.Role)
	if err != nil {
		log.Err(err).Msg("Failed to issue token")
		writeJSON(w, http.StatusInternalServerError, api.LoginResponse{Message: "Login failed"})
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{
		Success: true,
		LoginData: &api.LoginData{
			User:  user,
			Token: api.LoginToken{Token: token},
		},
	})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := b.tokens.Revoke(raw); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Envelope[any]{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope[any]{Success: true})
}

func (b *Backend) listAgents(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	list := make([]api.DeliveryAgent, 0, len(b.agents))
	for _, a := range b.agents {
		list = append(list, summarise(a))
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, api.Envelope[[]api.DeliveryAgent]{Success: true, Data: list})
}

func (b *Backend) getAgent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.agents {
		if a.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, api.Envelope[api.AgentDetail]{Success: true, Data: a})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, api.Envelope[any]{Message: "Delivery agent not found"})
}

func (b *Backend) createAgent(w http.ResponseWriter, r *http.Request) {
	var payload api.AgentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Envelope[any]{Message: "Invalid request body"})
		return
	}
	agent := api.AgentDetail{ID: uuid.New().String(), AgentPayload: payload}

	b.mu.Lock()
	b.agents = append(b.agents, agent)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, api.Envelope[api.AgentDetail]{Success: true, Data: agent})
}

func (b *Backend) updateAgent(w http.ResponseWriter, r *http.Request) {
	var payload api.AgentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Envelope[any]{Message: "Invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.agents {
		if b.agents[i].ID == r.PathValue("id") {
			b.agents[i].AgentPayload = payload
			writeJSON(w, http.StatusOK, api.Envelope[api.AgentDetail]{Success: true, Data: b.agents[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, api.Envelope[any]{Message: "Delivery agent not found"})
}

func (b *Backend) listCategories(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, api.Envelope[[]api.Category]{Success: true, Data: b.categories})
}

func (b *Backend) updateCategory(w http.ResponseWriter, r *http.Request) {
	var patch api.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Envelope[any]{Message: "Invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.categories {
		c := &b.categories[i]
		if c.ID != r.PathValue("id") {
			continue
		}
		utils.SetIf(&c.Name, patch.Name)
		utils.SetIf(&c.Description, patch.Description)
		utils.SetIf(&c.ImageURL, patch.ImageURL)
		utils.SetIf(&c.ShowOnHome, patch.ShowOnHome)
		utils.SetIf(&c.SortOrder, patch.SortOrder)
		log.Debug().Str("category", c.ID).Str("name", utils.Value(patch.Name)).Msg("Category updated")
		writeJSON(w, http.StatusOK, api.Envelope[api.Category]{Success: true, Data: *c})
		return
	}
	writeJSON(w, http.StatusNotFound, api.Envelope[any]{Message: "Category not found"})
}

func (b *Backend) updateService(w http.ResponseWriter, r *http.Request) {
	var patch api.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Envelope[any]{Message: "Invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.categories {
		for j := range b.categories[i].Services {
			s := &b.categories[i].Services[j]
			if s.ID != r.PathValue("id") {
				continue
			}
			utils.SetIf(&s.Name, patch.Name)
			utils.SetIf(&s.Description, patch.Description)
			utils.SetIf(&s.BasePrice, patch.BasePrice)
			utils.SetIf(&s.ImageURL, patch.ImageURL)
			utils.SetIf(&s.IsActive, patch.IsActive)
			utils.SetIf(&s.ShowOnHome, patch.ShowOnHome)
			utils.SetIf(&s.SortOrder, patch.SortOrder)
			if patch.PricingVariations != nil {
				s.PricingVariations = patch.PricingVariations
			}
			writeJSON(w, http.StatusOK, api.Envelope[api.Service]{Success: true, Data: *s})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, api.Envelope[any]{Message: "Service not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}
