package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/chameleon/games/chameleon"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	bind           string
	playerTimeout  time.Duration
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	boards         string
	everyoneCanBe  bool
	everyoneChance float64
	voteVisibility string

	logger *zap.Logger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if _, err := c.settings(); err != nil {
		return err
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// settings returns the match settings used when a host starts a game
// without choosing their own.
func (c *Config) settings() (chameleon.Settings, error) {
	vis, err := chameleon.ParseVoteVisibility(c.voteVisibility)
	if err != nil {
		return chameleon.Settings{}, err
	}

	s := chameleon.Settings{
		EveryoneCanBeImpostor:  c.everyoneCanBe,
		EveryoneImpostorChance: c.everyoneChance,
		VoteVisibility:         vis,
	}

	return s, s.Validate()
}

func (c *Config) catalog() (chameleon.Catalog, error) {
	if c.boards == "" {
		return chameleon.DefaultCatalog(), nil
	}
	return chameleon.LoadCatalogFile(c.boards)
}

func (c *Config) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

	return config.Build()
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CHAMELEON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "chameleon",
		Short:         "Serves the Chameleon hidden-role word game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			cfg.logger = logger

			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CHAMELEON_BIND)")
	fs.StringVar(&cfg.boards, "boards", "", "path to a YAML file of word boards, replacing the built-in ones (env: CHAMELEON_BOARDS)")
	fs.Float64Var(&cfg.everyoneChance, "chameleon-chance", 0.5, "chance that everyone is the chameleon in a round, when enabled (env: CHAMELEON_CHAMELEON_CHANCE)")
	fs.BoolVar(&cfg.everyoneCanBe, "everyone-can-be-chameleon", false, "allow rounds in which everyone is the chameleon (env: CHAMELEON_EVERYONE_CAN_BE_CHAMELEON)")
	fs.DurationVar(&cfg.playerTimeout, "player-timeout", 10*time.Minute, "time before disconnected players are removed from a lobby (env: CHAMELEON_PLAYER_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: CHAMELEON_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: CHAMELEON_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: CHAMELEON_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle games are ended (env: CHAMELEON_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: CHAMELEON_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: CHAMELEON_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CHAMELEON_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: CHAMELEON_VERSION)")
	fs.StringVar(&cfg.voteVisibility, "vote-visibility", string(chameleon.VisibilityCountOnly), "what players see of votes in progress: none, count-only or full (env: CHAMELEON_VOTE_VISIBILITY)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("chameleon v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
