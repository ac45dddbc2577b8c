package main

import (
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultDataDir              = "./data"
	defaultNode                 = "mock"
	defaultLndUri               = "localhost:10009"
	defaultLndTlsCertPath       = "tls.cert"
	defaultLndMacaroonPath      = "admin.macaroon"
	defaultPaymentTimeout       = 60 * time.Second
	defaultFeeLimitSat          = 1000
	defaultApiListen            = "localhost:8080"
	defaultTorPath              = "tor"
	defaultConnectivityInterval = 30 * time.Second
)

type lndConfig struct {
	Uri            string        `long:"uri" description:"Host and port of the lnd gRPC interface"`
	TlsCertPath    string        `long:"tlscertpath" description:"Path to the TLS certificate of lnd"`
	MacaroonPath   string        `long:"macaroonpath" description:"Path to the macaroon used to authenticate against lnd"`
	Socks          string        `long:"socks" description:"Host and port of a SOCKS5 proxy used to reach lnd, e.g. localhost:9050 for Tor"`
	PaymentTimeout time.Duration `long:"paymenttimeout" description:"Time lnd may spend trying to route a payment"`
	FeeLimitSat    int64         `long:"feelimit" description:"Maximum routing fee in satoshis paid per payment"`
}

type apiConfig struct {
	Listen string `long:"listen" description:"Interface and port the HTTP API listens on"`
}

type torConfig struct {
	Enabled bool   `long:"enabled" description:"Also publish the HTTP API as a Tor onion service"`
	Path    string `long:"path" description:"Path to the tor executable"`
}

type profilingConfig struct {
	Listen string `long:"listen" description:"Start a profiling server on this interface and port"`
}

type connectivityConfig struct {
	Interval time.Duration `long:"interval" description:"How often the connection to the liquidity provider is checked"`
}

type config struct {
	ConfigFile   string              `long:"configfile" description:"Path to an INI config file"`
	ShowVersion  bool                `short:"v" long:"version" description:"Display version information and exit"`
	Debug        bool                `long:"debug" description:"Start in debug mode"`
	Token        string              `long:"token" env:"PAYD_TOKEN" description:"API token, its first letter selects the network"`
	DataDir      string              `long:"datadir" description:"Directory of payd.db"`
	Node         string              `long:"node" description:"Lightning node implementation" choice:"lnd" choice:"mock"`
	Lnd          *lndConfig          `group:"lnd" namespace:"lnd"`
	Api          *apiConfig          `group:"api" namespace:"api"`
	Tor          *torConfig          `group:"tor" namespace:"tor"`
	Profiling    *profilingConfig    `group:"profiling" namespace:"profiling"`
	Connectivity *connectivityConfig `group:"connectivity" namespace:"connectivity"`
}

// defaultConfig returns a config with every default set. Each call allocates
// its own option groups.
func defaultConfig() config {
	return config{
		DataDir: defaultDataDir,
		Node:    defaultNode,
		Lnd: &lndConfig{
			Uri:            defaultLndUri,
			TlsCertPath:    defaultLndTlsCertPath,
			MacaroonPath:   defaultLndMacaroonPath,
			PaymentTimeout: defaultPaymentTimeout,
			FeeLimitSat:    defaultFeeLimitSat,
		},
		Api: &apiConfig{
			Listen: defaultApiListen,
		},
		Tor: &torConfig{
			Path: defaultTorPath,
		},
		Profiling: &profilingConfig{},
		Connectivity: &connectivityConfig{
			Interval: defaultConnectivityInterval,
		},
	}
}

// loadConfig applies defaults, then the optional config file, then the
// command line, which takes precedence.
func loadConfig() (*config, error) {
	return parseConfig(os.Args[1:])
}

func parseConfig(args []string) (*config, error) {
	// Pre-parse the command line to find the config file and
	// the version flag
	preCfg := defaultConfig()
	if _, err := flags.NewParser(&preCfg, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	if preCfg.ShowVersion {
		return &preCfg, nil
	}

	cfg := defaultConfig()

	if preCfg.ConfigFile != "" {
		err := flags.IniParse(preCfg.ConfigFile, &cfg)
		if err != nil {
			return nil, errors.Errorf("Could not read config file %v: %v", preCfg.ConfigFile, err)
		}
	}

	if _, err := flags.NewParser(&cfg, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Token == "" {
		return nil, errors.New("A token is required, set --token or PAYD_TOKEN")
	}

	return &cfg, nil
}
