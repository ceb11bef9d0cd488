package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/go-job-board/pkg/app"
	"github.com/wadjakorntonsri/go-job-board/pkg/config"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Note: On Vercel, the local sqlite file is ephemeral unless DATABASE_URL points at Turso
	application, err := app.New(context.Background(), cfg)
	if err != nil {
		panic(err)
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
