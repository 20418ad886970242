package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plasmanet/plasma-go/engine/verification/guard"
	"github.com/plasmanet/plasma-go/model/encoding"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/module/metrics"
	"github.com/plasmanet/plasma-go/module/statemanager"
	"github.com/plasmanet/plasma-go/plugins"
	"github.com/plasmanet/plasma-go/plugins/ownership"
	bstorage "github.com/plasmanet/plasma-go/storage/badger"
)

var (
	flagDatadir     string
	flagBlocks      string
	flagMetricsAddr string
	flagOwnership   []string
	flagLoglevel    string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "verifier",
	Short: "Check a stream of rollup blocks against verified local state",
	RunE:  run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDatadir, "datadir", "d", "/var/plasma/data",
		"directory for the verified state database")
	rootCmd.PersistentFlags().StringVarP(&flagBlocks, "blocks", "b", "",
		"path to a CBOR stream of rollup blocks, - for stdin")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "",
		"address to serve prometheus metrics on, disabled when empty")
	rootCmd.PersistentFlags().StringSliceVar(&flagOwnership, "ownership-predicate", nil,
		"hex addresses to register the ownership predicate under")
	rootCmd.PersistentFlags().StringVarP(&flagLoglevel, "loglevel", "l", "info",
		"log level (debug, info, warn, error)")
	_ = rootCmd.MarkPersistentFlagRequired("blocks")

	log = zerolog.New(zerolog.NewConsoleWriter())

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetEnvPrefix("PLASMA")
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

func run(cmd *cobra.Command, _ []string) error {

	level, err := zerolog.ParseLevel(flagLoglevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLoglevel, err)
	}
	log = log.Level(level)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := badger.Open(badger.DefaultOptions(flagDatadir).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("could not open database at %s: %w", flagDatadir, err)
	}

	var blocks io.ReadCloser = os.Stdin
	if flagBlocks != "-" {
		blocks, err = os.Open(flagBlocks)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("could not open block stream: %w", err)
		}
	}

	defer func() {
		var result *multierror.Error
		if flagBlocks != "-" {
			result = multierror.Append(result, blocks.Close())
		}
		result = multierror.Append(result, db.Close())
		if cerr := result.ErrorOrNil(); cerr != nil {
			log.Error().Err(cerr).Msg("shutdown incomplete")
		}
	}()

	registry := plugins.NewRegistry(nil)
	for _, hex := range flagOwnership {
		addr, err := plasma.HexToAddress(hex)
		if err != nil {
			return fmt.Errorf("invalid ownership predicate address %q: %w", hex, err)
		}
		registry.Register(addr, ownership.New())
	}

	collector := metrics.NewVerificationCollector(prometheus.DefaultRegisterer)
	updates := bstorage.NewStateUpdates(db)
	checkpoints := bstorage.NewCheckpoints(db)
	manager := statemanager.New(log, updates, registry)

	g, err := guard.New(log, collector, manager, updates, checkpoints)
	if err != nil {
		return fmt.Errorf("could not initialize guard: %w", err)
	}

	if flagMetricsAddr != "" {
		server := &http.Server{Addr: flagMetricsAddr, Handler: promhttp.Handler()}
		go func() {
			log.Info().Str("address", flagMetricsAddr).Msg("serving metrics")
			if serr := server.ListenAndServe(); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
				log.Error().Err(serr).Msg("metrics server failed")
			}
		}()
		defer func() {
			_ = server.Close()
		}()
	}

	log.Info().
		Str("position", g.CurrentPosition().String()).
		Msg("starting verification")

	decoder := encoding.NewBlockStreamDecoder(blocks)
	for {
		if ctx.Err() != nil {
			log.Info().Msg("interrupted")
			return nil
		}

		block, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			log.Info().
				Str("position", g.CurrentPosition().String()).
				Msg("block stream exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not decode block: %w", err)
		}

		result, err := g.CheckNextBlock(ctx, block)
		if err != nil {
			return fmt.Errorf("could not check block %d: %w", block.Number, err)
		}
		if result.Verdict == plasma.VerdictInvalid {
			log.Warn().
				Uint64("block", block.Number).
				Int("transition", result.Evidence.TransitionIndex).
				Msg("invalid block detected, halting")
			return nil
		}
	}
}
