package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	// Blank import to set up profiling HTTP handlers.
	_ "net/http/pprof"

	"github.com/cretz/bine/tor"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/the-lightning-land/payd/api"
	"github.com/the-lightning-land/payd/connectivity"
	"github.com/the-lightning-land/payd/metrics"
	"github.com/the-lightning-land/payd/network"
	"github.com/the-lightning-land/payd/node"
	"github.com/the-lightning-land/payd/onion"
	"github.com/the-lightning-land/payd/paydb"
	"github.com/the-lightning-land/payd/wallet"
	"golang.org/x/sys/unix"
)

const apiShutdownTimeout = 5 * time.Second

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// Date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// paydMain is the true entry point for payd. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func paydMain() error {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Profiling.Listen != "" {
		go func() {
			log.Infof("Starting profiling server on %v", cfg.Profiling.Listen)
			// Redirect the root path
			http.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))
			// All other handlers are registered on DefaultServeMux through the import of pprof
			err := http.ListenAndServe(cfg.Profiling.Listen, nil)
			if err != nil {
				log.Errorf("Could not run profiler: %v", err)
			}
		}()
	}

	// payd.db keeps unhandled node events and settings across restarts
	db, err := paydb.Open(cfg.DataDir)
	if err != nil {
		return errors.Errorf("Could not open payd.db: %v", err)
	}

	log.Infof("Opened payd.db")

	defer func() {
		err := db.Close()
		if err != nil {
			log.Errorf("Could not close payd.db: %v", err)
		} else {
			log.Info("Closed payd.db.")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := metrics.New(reg)

	w, err := wallet.New(&wallet.Config{
		Token:     cfg.Token,
		BuildNode: nodeBuilder(cfg, db),
		Logger:    log.WithField("system", "wallet"),
		Metrics:   m,
	})
	if err != nil {
		return errors.Errorf("Could not create wallet: %v", err)
	}

	log.Infof("Created wallet on %v.", w.Network())

	defer func() {
		w.Shutdown()
		log.Info("Stopped wallet.")
	}()

	reporter := connectivity.NewReporter(&connectivity.Config{
		Probe: func(ctx context.Context) (bool, error) {
			s, err := w.Status(ctx)
			if err != nil {
				return false, err
			}

			return s.Connected, nil
		},
		Interval: cfg.Connectivity.Interval,
		OnChange: func(state connectivity.State) {
			m.SetLspConnected(state == connectivity.Online)
		},
		Logger: log.WithField("system", "connectivity"),
	})

	reporter.Start()
	defer reporter.Stop()

	a := api.New(&api.Config{
		Wallet:   w,
		Log:      log.WithField("system", "api"),
		Gatherer: reg,
	})

	lis, err := net.Listen("tcp", cfg.Api.Listen)
	if err != nil {
		return errors.Errorf("API unable to listen on %v: %v", cfg.Api.Listen, err)
	}

	go func() {
		log.Infof("Serving API on %v", lis.Addr())

		err := a.Serve(lis)
		if err != nil {
			log.Errorf("Could not serve api: %v", err)
		}
	}()

	defer func() {
		err := stopApi(w, a, apiShutdownTimeout)
		if err != nil {
			log.Errorf("Could not properly stop api: %v", err)
		} else {
			log.Info("Stopped API.")
		}
	}()

	if cfg.Tor.Enabled {
		t, err := startOnion(cfg, db, a)
		if err != nil {
			return errors.Errorf("Could not publish onion service: %v", err)
		}

		defer func() {
			err := t.Close()
			if err != nil {
				log.Errorf("Could not properly stop Tor: %v", err)
			} else {
				log.Infof("Stopped Tor.")
			}
		}()
	}

	// Handle interrupt signals correctly
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, unix.SIGTERM)

	sig := <-signals
	log.Infof("Received %v, stopping payd...", sig)

	// finish with no error
	return nil
}

// stopApi fails pending sends before the server drains, so their requests
// complete with 503 instead of running into the timeout.
func stopApi(w *wallet.Wallet, a *api.Api, timeout time.Duration) error {
	w.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return a.Shutdown(ctx)
}

func nodeBuilder(cfg *config, db *paydb.DB) wallet.NodeBuilder {
	return func(chain network.Network, services *network.Services) (node.Node, error) {
		switch cfg.Node {
		case "lnd":
			certBytes, err := os.ReadFile(cfg.Lnd.TlsCertPath)
			if err != nil {
				return nil, errors.Errorf("Could not read tls cert: %v", err)
			}

			macaroonBytes, err := os.ReadFile(cfg.Lnd.MacaroonPath)
			if err != nil {
				return nil, errors.Errorf("Could not read macaroon: %v", err)
			}

			n, err := node.NewLndNode(&node.LndNodeConfig{
				Uri:            cfg.Lnd.Uri,
				CertBytes:      certBytes,
				MacaroonBytes:  macaroonBytes,
				SocksProxy:     cfg.Lnd.Socks,
				LspNodeID:      services.LspNodeID,
				LspAddress:     services.LspAddress,
				PaymentTimeout: cfg.Lnd.PaymentTimeout,
				FeeLimitSat:    cfg.Lnd.FeeLimitSat,
				Events:         db.EventQueue(log.WithField("system", "paydb")),
				Logger:         log.WithField("system", "lnd"),
			})
			if err != nil {
				return nil, err
			}

			log.Infof("Created lnd node for %v.", cfg.Lnd.Uri)

			return n, nil
		case "mock":
			n, err := node.NewMockNode(&node.MockNodeConfig{
				Params:     chain.Params(),
				LspNodeID:  services.LspNodeID,
				AutoSettle: true,
				Logger:     log.WithField("system", "mock"),
			})
			if err != nil {
				return nil, err
			}

			log.Info("Created a mock node.")

			return n, nil
		default:
			return nil, errors.Errorf("Unknown node type %v", cfg.Node)
		}
	}
}

// startOnion publishes the API as a v3 onion service with a key that is kept
// in payd.db, so the onion address survives restarts.
func startOnion(cfg *config, db *paydb.DB, a *api.Api) (*tor.Tor, error) {
	stored, err := db.GetOnionPrivateKey()
	if err != nil {
		log.Warnf("Could not read onion key: %v", err)
	}

	key, err := onion.ParsePrivateKey(stored)
	if err != nil {
		key, err = onion.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}

		log.Infof("Generated new onion key")

		err = db.SetOnionPrivateKey(key)
		if err != nil {
			log.Errorf("Could not save generated onion key: %v", err)
		}
	}

	t, err := tor.Start(nil, &tor.StartConf{
		ExePath:         cfg.Tor.Path,
		TempDataDirBase: os.TempDir(),
		DebugWriter:     log.WithField("system", "tor").WriterLevel(log.DebugLevel),
	})
	if err != nil {
		return nil, errors.Errorf("Could not start tor: %v", err)
	}

	log.Infof("Started Tor, publishing http://%v.onion", onion.ServiceID(key))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	service, err := t.Listen(ctx, &tor.ListenConf{
		Key:         key.KeyPair(),
		Version3:    true,
		RemotePorts: []int{80},
	})
	if err != nil {
		_ = t.Close()
		return nil, errors.Errorf("Could not create onion service: %v", err)
	}

	go func() {
		err := a.Serve(service)
		if err != nil {
			log.Errorf("Could not serve api through onion service: %v", err)
		}
	}()

	return t, nil
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := paydMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running payd.")
		}
		os.Exit(1)
	}
}
