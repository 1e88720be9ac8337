package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/orchestrators/lookup"
)

// lookupFlags are bound per command.
type lookupFlags struct {
	useCache bool
	force    bool
	asJSON   bool
	withKeys bool
}

func (f *lookupFlags) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.useCache, "use-cache", false, "serve cached pages without asking the wiki")
	cmd.Flags().BoolVar(&f.force, "force", false, "refetch every page from the wiki")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the record as JSON")
	cmd.MarkFlagsMutuallyExclusive("use-cache", "force")
}

func (f *lookupFlags) options() lookup.Options {
	return lookup.Options{UseCache: f.useCache, Force: f.force}
}

var (
	characterFlags lookupFlags
	weaponFlags    lookupFlags
	statusFlags    lookupFlags
)

var characterCmd = &cobra.Command{
	Use:   "character <name>",
	Short: "Look up a doll",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			out, err := a.lookup.GetCharacter(cmd.Context(), &lookup.GetCharacterInput{
				Name:    strings.Join(args, " "),
				Options: characterFlags.options(),
			})
			if err != nil {
				return err
			}

			character := *out.Character
			if !characterFlags.withKeys {
				character.Nodes = nil
			}
			if characterFlags.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"character": character, "degraded": out.Degraded})
			}
			renderCharacter(cmd.OutOrStdout(), &character, out.Degraded)
			return nil
		})
	},
}

var weaponCmd = &cobra.Command{
	Use:   "weapon <name>",
	Short: "Look up a weapon by name or nickname",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			out, err := a.lookup.GetWeapon(cmd.Context(), &lookup.GetWeaponInput{
				Name:    strings.Join(args, " "),
				Options: weaponFlags.options(),
			})
			if err != nil {
				return err
			}

			if weaponFlags.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"weapon": out.Weapon, "degraded": out.Degraded})
			}
			renderWeapon(cmd.OutOrStdout(), out.Weapon, out.Degraded)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Look up a status effect",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			out, err := a.lookup.GetStatusEffect(cmd.Context(), &lookup.GetStatusEffectInput{
				Name:    strings.Join(args, " "),
				Options: statusFlags.options(),
			})
			if err != nil {
				return err
			}

			if statusFlags.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"status_effect": out.StatusEffect, "degraded": out.Degraded})
			}
			renderStatusEffect(cmd.OutOrStdout(), out.StatusEffect, out.Degraded)
			return nil
		})
	},
}

func init() {
	characterFlags.bind(characterCmd)
	characterCmd.Flags().BoolVar(&characterFlags.withKeys, "with-keys", false, "include neural helix nodes")
	weaponFlags.bind(weaponCmd)
	statusFlags.bind(statusCmd)
}

func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(a); err != nil {
		if errors.IsNotFound(err) {
			return errors.Wrap(err, "not recognized")
		}
		return err
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
