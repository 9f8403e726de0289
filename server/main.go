package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"chipstack/server/store"
)

const defaultStartBalance = 1000

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	startBalance := envInt("START_BALANCE", defaultStartBalance)
	seed := int64(envInt("SEED", 0))

	var db *store.DB
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		d, err := store.Open(dsn)
		if err != nil {
			log.Printf("DB disabled (open failed): %v", err)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := store.Migrate(ctx, d); err != nil {
				log.Printf("migrate failed (continuing without DB): %v", err)
				d.Close(ctx)
			} else {
				db = d
				log.Println("migrated")
			}
			cancel()
		}
	} else {
		log.Println("DATABASE_URL not set; balances are in-memory only")
	}

	sessions := NewSessions(db, startBalance, seed)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: Router(sessions),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Printf("listening on http://localhost:%s (Ctrl+C to stop)", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	if db != nil {
		db.Close(context.Background())
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("bad %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
