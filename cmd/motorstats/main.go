package main

import (
	"fmt"
	"os"
	"time"

	"motorstats/cmd/motorstats/cmd"
	"motorstats/lib/configutil"
	"motorstats/lib/ergast"
	"motorstats/lib/fetch"
	"motorstats/lib/osutil"
	"motorstats/lib/restyutil"
	"motorstats/lib/telemetry"
)

type Config struct {
	BaseUrl       string `json:"base_url"`
	CacheDir      string `json:"cache_dir"`
	CacheTtlHours int    `json:"cache_ttl_hours"`
	// dump raw HTTP exchanges here when debug logging is on
	RestyDumpDir string `json:"resty_dump_dir"`
	Debug        bool   `json:"debug"`
}

func main() {
	cfg, err := configutil.ReadRecursively[Config]("motorstats.json5")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "failed to read config:", err)
		os.Exit(1)
	}

	telemetry.InitSlog(cfg.Debug)

	ctx := osutil.SignalContext()

	err = telemetry.SetupFromEnv(ctx, "motorstats")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "failed to setup telemetry:", err)
		os.Exit(1)
	}
	defer telemetry.Shutdown(ctx)

	var instrument restyutil.InstrumentOutput
	if cfg.RestyDumpDir != "" {
		instrument = restyutil.NewFilesystemOutput(cfg.RestyDumpDir)
	}

	fetcher, err := fetch.NewClient(fetch.Options{
		CacheDir:         cfg.CacheDir,
		CacheTTL:         time.Duration(cfg.CacheTtlHours) * time.Hour,
		InstrumentOutput: instrument,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize fetch client:", err)
		os.Exit(1)
	}
	defer fetcher.Close()

	cmd.Client = ergast.NewClient(ergast.ClientOptions{
		Fetch:   fetcher,
		BaseUrl: cfg.BaseUrl,
	})

	cmd.Execute(ctx)
}
