package main

import (
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"capsearch/testserver"
)

var (
	app         = kingpin.New("testserver", "Target service for local capacity experiments.")
	addr        = app.Flag("addr", "Listen address.").Default(":8080").String()
	saturation  = app.Flag("saturation", "Concurrent /load requests at which latency starts climbing.").Default("64").Int()
	baseLatency = app.Flag("base-latency", "Latency of /load under light load.").Default("5ms").Duration()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	server := testserver.New()
	server.SaturationPoint = *saturation
	server.BaseLatency = *baseLatency

	logrus.WithFields(logrus.Fields{
		"addr":       *addr,
		"saturation": *saturation,
	}).Info("test server listening")

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		logrus.Fatal(err)
	}
}
