/*mvbridge bridges an RS-232 HDMI multiviewer onto a small JSON API.*/
package main

/*
MIT License

Copyright (c) 2024-2026 The mvbridge Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/rs/zerolog"

	"github.com/openav/mvbridge/internal/commands"
	"github.com/openav/mvbridge/internal/device"
	"github.com/openav/mvbridge/internal/server"
)

var version = "dev"

var (
	app      = kingpin.New("mvbridge", "HTTP bridge for an RS-232 HDMI multiviewer")
	endpoint = app.Flag("endpoint", "Device endpoint: a serial device path, serial://dev:baud, or tcp://host:port").
			Envar("SERIAL_PORT").Default("/dev/ttyUSB0").String()
	baud = app.Flag("baud", "Serial baud rate (ignored for tcp endpoints)").
		Envar("SERIAL_BAUD").Default("115200").Int()
	timeout = app.Flag("timeout", "Per-exchange read deadline").
		Envar("SERIAL_TIMEOUT").Default("2s").Duration()
	heartbeat = app.Flag("heartbeat", "Liveness probe interval").
			Envar("HEARTBEAT_INTERVAL").Default("30s").Duration()
	backoffMax = app.Flag("backoff-max", "Reconnect backoff ceiling").
			Envar("RECONNECT_BACKOFF_MAX").Default("30s").Duration()
	listen = app.Flag("listen", "HTTP listen address").
		Envar("LISTEN_ADDR").Default(":8080").String()
	logLevel = app.Flag("log-level", "Log level: trace, debug, info, warn, error").
			Envar("LOG_LEVEL").Default("info").String()
	logJSON = app.Flag("log-json", "Emit JSON logs instead of console output").
		Envar("LOG_JSON").Bool()
	dumpCommands = app.Flag("dump-commands", "Print the device command vocabulary and exit").Bool()
)

func main() {
	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *dumpCommands {
		fmt.Print(commands.Vocabulary().String())
		return
	}

	log := newLogger(*logLevel, *logJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dev, err := device.New(device.Options{
		Endpoint:            *endpoint,
		BaudRate:            *baud,
		Timeout:             *timeout,
		HeartbeatInterval:   *heartbeat,
		ReconnectBackoffMax: *backoffMax,
	}, log.With().Str("component", "device").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid device configuration")
	}

	//the device may be unplugged at boot; Start never fails for that,
	//the reconnect loop keeps trying in the background
	dev.Start(ctx)
	defer dev.Stop()

	srv := server.New(server.Config{Listen: *listen, Version: version}, dev,
		log.With().Str("component", "http").Logger())

	errs := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errs:
		log.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown did not drain cleanly")
	}
}

func newLogger(level string, json bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if json {
		log = zerolog.New(os.Stderr)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return log.Level(lvl).With().Timestamp().Logger()
}
