// Package v1 serves lookups over a JSON HTTP API.
package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/orchestrators/lookup"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	LookupService lookup.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil || c.LookupService == nil {
		return errors.InvalidArgument("lookup service is required")
	}
	return nil
}

// Handler implements the lookup HTTP API
type Handler struct {
	lookupService lookup.Service
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		lookupService: cfg.LookupService,
	}, nil
}

// Routes mounts every lookup route.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/characters/{name}", h.GetCharacter)
	r.Get("/weapons/{name}", h.GetWeapon)
	r.Get("/status-effects/{name}", h.GetStatusEffect)
	return r
}

// GetCharacter handles GET /characters/{name}.
func (h *Handler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	opts, err := options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	withKeys, err := boolParam(r, "with_keys")
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.lookupService.GetCharacter(r.Context(), &lookup.GetCharacterInput{
		Name:    chi.URLParam(r, "name"),
		Options: opts,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, characterResponse{
		Character: toCharacterDTO(out.Character, withKeys),
		Degraded:  out.Degraded,
	})
}

// GetWeapon handles GET /weapons/{name}.
func (h *Handler) GetWeapon(w http.ResponseWriter, r *http.Request) {
	opts, err := options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.lookupService.GetWeapon(r.Context(), &lookup.GetWeaponInput{
		Name:    chi.URLParam(r, "name"),
		Options: opts,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, weaponResponse{Weapon: out.Weapon, Degraded: out.Degraded})
}

// GetStatusEffect handles GET /status-effects/{name}.
func (h *Handler) GetStatusEffect(w http.ResponseWriter, r *http.Request) {
	opts, err := options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.lookupService.GetStatusEffect(r.Context(), &lookup.GetStatusEffectInput{
		Name:    chi.URLParam(r, "name"),
		Options: opts,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusEffectResponse{StatusEffect: out.StatusEffect, Degraded: out.Degraded})
}

func options(r *http.Request) (lookup.Options, error) {
	useCache, err := boolParam(r, "use_cache")
	if err != nil {
		return lookup.Options{}, err
	}
	force, err := boolParam(r, "force")
	if err != nil {
		return lookup.Options{}, err
	}
	if useCache && force {
		return lookup.Options{}, errors.InvalidArgument("use_cache and force are mutually exclusive")
	}
	return lookup.Options{UseCache: useCache, Force: force}, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.InvalidArgumentf("%s must be a boolean", name).WithMeta("value", raw)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "lookup failed", "path", r.URL.Path, "code", code.String(), "error", err)
	} else {
		slog.InfoContext(r.Context(), "lookup rejected", "path", r.URL.Path, "code", code.String(), "error", err)
	}

	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    code.String(),
		Message: errors.GetMessage(err),
		Meta:    errors.GetMeta(err),
	}})
}
