package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyAPIURL    = "api_url"
	keyStatePath = "state_path"
	keyToken     = "token"
	keyTimeout   = "timeout"
)

var output = jsoniter.ConfigCompatibleWithStandardLibrary

// newRootCmd builds the command tree. Settings resolve from flags first, then
// CATALOG_* environment variables, then defaults.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Browse, edit and book meal subscription services",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.String("api-url", "http://localhost:5000/api", "Record store API base URL")
	pf.String("state-path", "catalog.db", "File holding the fallback cache; empty keeps it in memory")
	pf.String("token", "", "Bearer token of the signed-in user")
	pf.Duration("timeout", 5*time.Second, "Per-command deadline for record store calls")
	_ = v.BindPFlag(keyAPIURL, pf.Lookup("api-url"))
	_ = v.BindPFlag(keyStatePath, pf.Lookup("state-path"))
	_ = v.BindPFlag(keyToken, pf.Lookup("token"))
	_ = v.BindPFlag(keyTimeout, pf.Lookup("timeout"))

	root.AddCommand(
		newServicesCmd(v),
		newBookCmd(v),
		newSubscriptionsCmd(v),
		newDBCmd(),
	)
	return root
}

// session is an access layer bound to the configured record store and state
// file for the lifetime of one command.
type session struct {
	access *catalog.AccessLayer
	slots  *catalog.BoltSlots
	ctx    context.Context
	cancel context.CancelFunc
}

func openSession(cmd *cobra.Command, v *viper.Viper) (*session, error) {
	s := &session{}
	var slots catalog.SlotStore
	if path := v.GetString(keyStatePath); path != "" {
		bolt, err := catalog.OpenBoltSlots(path)
		if err != nil {
			return nil, err
		}
		s.slots = bolt
		slots = bolt
	}

	store := catalog.NewHTTPRecordStore(v.GetString(keyAPIURL))
	s.access = catalog.NewAccessLayer(store, catalog.NewFallbackCache(slots), catalog.Options{
		Token: func() string { return v.GetString(keyToken) },
	})

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	s.ctx, s.cancel = context.WithTimeout(parent, v.GetDuration(keyTimeout))
	return s, nil
}

func (s *session) Close() error {
	s.cancel()
	if s.slots != nil {
		return s.slots.Close()
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := output.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func parsePatch(data string) (catalog.Patch, error) {
	var patch catalog.Patch
	if err := output.Unmarshal([]byte(data), &patch); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	return patch, nil
}
