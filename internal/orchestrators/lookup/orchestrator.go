// Package lookup resolves characters, weapons and status effects by name.
// Every page goes through the reconciler; extraction or fetch failures fall
// back to the cached copy, which is then pinned.
package lookup

//go:generate mockgen -destination=mock/mock_service.go -package=lookupmock github.com/KirkDiggler/lenna/internal/orchestrators/lookup Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/KirkDiggler/lenna/internal/clients/wiki"
	"github.com/KirkDiggler/lenna/internal/entities"
	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/extractors"
	"github.com/KirkDiggler/lenna/internal/orchestrators/reconciler"
)

const (
	// DefaultWeaponsPage is the wiki page listing every weapon.
	DefaultWeaponsPage = "GFL2_Weapons"
	// DefaultStatusEffectsPage is the wiki page listing every status effect.
	DefaultStatusEffectsPage = "GFL2_Status_Effects"

	weaponsPageID       = "weapons"
	statusEffectsPageID = "status_effects"
)

// Service defines the interface for entity lookups
type Service interface {
	// GetCharacter returns a character with its skills and nodes.
	// Returns errors.CacheNotFound when UseCache is set and a page is not cached
	// Returns errors.NotFound when neither the wiki nor the cache can serve it
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)

	// GetWeapon returns a weapon by name or nickname.
	GetWeapon(ctx context.Context, input *GetWeaponInput) (*GetWeaponOutput, error)

	// GetStatusEffect returns a status effect by name.
	GetStatusEffect(ctx context.Context, input *GetStatusEffectInput) (*GetStatusEffectOutput, error)
}

// Config holds the dependencies for the lookup orchestrator
type Config struct {
	Reconciler reconciler.Service
	// Aliases defaults to the embedded alias file
	Aliases           *Aliases
	WeaponsPage       string
	StatusEffectsPage string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Reconciler == nil {
		vb.RequiredField("Reconciler")
	}

	return vb.Build()
}

type orchestrator struct {
	reconciler        reconciler.Service
	aliases           *Aliases
	weaponsPage       string
	statusEffectsPage string

	mu            sync.RWMutex
	weapons       entities.Weapons
	statusEffects entities.StatusEffects
}

// NewOrchestrator creates a new lookup orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		reconciler:        cfg.Reconciler,
		aliases:           cfg.Aliases,
		weaponsPage:       cfg.WeaponsPage,
		statusEffectsPage: cfg.StatusEffectsPage,
	}
	if o.aliases == nil {
		o.aliases = DefaultAliases()
	}
	if o.weaponsPage == "" {
		o.weaponsPage = DefaultWeaponsPage
	}
	if o.statusEffectsPage == "" {
		o.statusEffectsPage = DefaultStatusEffectsPage
	}
	return o, nil
}

func (o *orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	pages := characterPages(input.Name, o.aliases.CharacterTitle(input.Name))

	var character *entities.Character
	degraded, err := o.resolve(ctx, "character "+input.Name, pages, input.Options,
		func(set *pageSet) error {
			texts, err := wikitexts(set)
			if err != nil {
				return err
			}
			c, err := extractors.ExtractCharacter(texts[0], texts[1:])
			if err != nil {
				return errors.Wrapf(err, "failed to extract %s", set.pages[0].title)
			}
			character = c
			return nil
		})
	if err != nil {
		return nil, err
	}

	return &GetCharacterOutput{Character: character, Degraded: degraded}, nil
}

// characterPages lists the base page followed by every skill page.
func characterPages(name, title string) []page {
	id := strings.ToLower(strings.TrimSpace(name))
	pages := []page{{id: id, title: title}}
	for i := 1; i <= extractors.MaxSkills; i++ {
		suffix := ""
		if i > 1 {
			suffix = fmt.Sprint(i)
		}
		pages = append(pages, page{
			id:    fmt.Sprintf("%s_skill%s", id, suffix),
			title: fmt.Sprintf("%s/skill%sdata", title, suffix),
		})
	}
	return pages
}

func (o *orchestrator) GetWeapon(ctx context.Context, input *GetWeaponInput) (*GetWeaponOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	pages := []page{{id: weaponsPageID, title: o.weaponsPage}}
	degraded, err := o.resolve(ctx, "weapons", pages, input.Options, func(set *pageSet) error {
		o.mu.RLock()
		loaded := o.weapons != nil
		o.mu.RUnlock()
		if loaded && !set.update {
			return nil
		}

		texts, err := wikitexts(set)
		if err != nil {
			return err
		}
		weapons, err := extractors.ExtractWeapons(texts[0])
		if err != nil {
			return err
		}

		o.mu.Lock()
		o.weapons = weapons
		o.mu.Unlock()
		slog.InfoContext(ctx, "loaded weapon catalogue", "count", len(weapons))
		return nil
	})
	if err != nil {
		return nil, err
	}

	key := o.aliases.WeaponName(input.Name)
	o.mu.RLock()
	weapon, ok := o.weapons.Find(key)
	o.mu.RUnlock()
	if !ok {
		return nil, errors.NotFoundf("weapon %s not found", input.Name).WithMeta("weapon", key)
	}

	return &GetWeaponOutput{Weapon: weapon, Degraded: degraded}, nil
}

func (o *orchestrator) GetStatusEffect(ctx context.Context, input *GetStatusEffectInput) (*GetStatusEffectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	pages := []page{{id: statusEffectsPageID, title: o.statusEffectsPage}}
	degraded, err := o.resolve(ctx, "status effects", pages, input.Options, func(set *pageSet) error {
		o.mu.RLock()
		loaded := o.statusEffects != nil
		o.mu.RUnlock()
		if loaded && !set.update {
			return nil
		}

		texts, err := wikitexts(set)
		if err != nil {
			return err
		}
		effects, err := extractors.ExtractStatusEffects(texts[0])
		if err != nil {
			return err
		}

		o.mu.Lock()
		o.statusEffects = effects
		o.mu.Unlock()
		slog.InfoContext(ctx, "loaded status effects", "count", len(effects))
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.mu.RLock()
	effect, ok := o.statusEffects.Find(input.Name)
	o.mu.RUnlock()
	if !ok {
		return nil, errors.NotFoundf("status effect %s not found", input.Name).
			WithMeta("status_effect", strings.TrimSpace(input.Name))
	}

	return &GetStatusEffectOutput{StatusEffect: effect, Degraded: degraded}, nil
}

// resolve reconciles every page, hands the content to build and rewrites the
// cache when asked. When reconciliation or build fails it retries from the
// cache and pins every page. It reports whether the result is degraded.
func (o *orchestrator) resolve(ctx context.Context, label string, pages []page, opts Options, build func(*pageSet) error) (bool, error) {
	set, err := o.reconcileAll(ctx, pages, opts)
	if err == nil {
		err = build(set)
	}

	if err != nil {
		// A caller that went away says nothing about the wiki or the markup.
		if ctxErr := ctx.Err(); ctxErr != nil {
			slog.WarnContext(ctx, "lookup abandoned", "lookup", label, "error", err)
			return false, errors.FromContext(ctxErr, fmt.Sprintf("%s lookup abandoned", label))
		}
		if errors.IsContextDone(err) {
			return false, err
		}
		if errors.IsCacheNotFound(err) {
			return false, err
		}
		if opts.Force {
			slog.ErrorContext(ctx, "forced lookup failed", "lookup", label, "error", err)
			return false, err
		}

		slog.ErrorContext(ctx, "lookup failed, falling back to cache", "lookup", label, "error", err)
		var fallbackErr error
		set, fallbackErr = o.reconcileAll(ctx, pages, Options{UseCache: true})
		if fallbackErr == nil {
			set.update = true
			fallbackErr = build(set)
		}
		if fallbackErr != nil {
			slog.ErrorContext(ctx, "cache fallback failed", "lookup", label, "error", fallbackErr)
			return false, errors.WrapWithCodef(err, errors.CodeNotFound, "%s not recognized", label).
				WithMeta("fallback_error", fallbackErr.Error())
		}
		set.updateable = false
	}

	if set.update {
		o.persistAll(context.WithoutCancel(ctx), set)
	}
	return !set.updateable, nil
}

func (o *orchestrator) reconcileAll(ctx context.Context, pages []page, opts Options) (*pageSet, error) {
	set := &pageSet{pages: pages, updateable: true}
	for _, p := range pages {
		out, err := o.reconciler.Reconcile(ctx, &reconciler.ReconcileInput{
			PageID:   p.id,
			Title:    p.title,
			UseCache: opts.UseCache,
			Force:    opts.Force,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to reconcile %s", p.title)
		}
		set.payloads = append(set.payloads, out.Payload)
		set.update = set.update || out.Update
		set.updateable = set.updateable && out.Updateable
	}
	return set, nil
}

// persistAll rewrites every page of the set. Failures are logged; the record
// has already been built.
func (o *orchestrator) persistAll(ctx context.Context, set *pageSet) {
	for i, p := range set.pages {
		_, err := o.reconciler.Persist(ctx, &reconciler.PersistInput{
			PageID:     p.id,
			Payload:    set.payloads[i],
			Updateable: set.updateable,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to persist page", "page_id", p.id, "error", err)
		}
	}
}

func wikitexts(set *pageSet) ([]string, error) {
	texts := make([]string, len(set.payloads))
	for i, payload := range set.payloads {
		text, err := wiki.Wikitext(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", set.pages[i].title)
		}
		texts[i] = text
	}
	return texts, nil
}
