package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brunosprotte/messenger-server-api/config"
	"github.com/brunosprotte/messenger-server-api/pkg/api"
	"github.com/brunosprotte/messenger-server-api/pkg/auth"
	"github.com/brunosprotte/messenger-server-api/pkg/bus"
	"github.com/brunosprotte/messenger-server-api/pkg/bus/natsio"
	"github.com/brunosprotte/messenger-server-api/pkg/bus/redisps"
	"github.com/brunosprotte/messenger-server-api/pkg/chat"
	"github.com/brunosprotte/messenger-server-api/pkg/presence"
	"github.com/brunosprotte/messenger-server-api/pkg/storage"
	"github.com/brunosprotte/messenger-server-api/pkg/storage/memory"
	"github.com/brunosprotte/messenger-server-api/pkg/storage/postgres"
	"github.com/brunosprotte/messenger-server-api/pkg/task"
)

type routerServer struct {
	c      *config.Config
	quitCh chan bool
	doneCh chan bool

	nc    *nats.Conn
	rdb   *redis.Client
	db    *sqlx.DB
	bus   bus.Bus
	tasks *task.Runner
}

func init() {
	formatter := &logrus.TextFormatter{
		FullTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	log.SetLevel(log.InfoLevel)
}

func newRouterServer(c *config.Config) (*routerServer, error) {
	s := &routerServer{
		c:      c,
		quitCh: make(chan bool),
		doneCh: make(chan bool),
		tasks:  task.NewRunner(64),
	}

	if c.RedisURL != "" {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid redis URL")
		}
		s.rdb = redis.NewClient(opts)
	}

	switch c.BusDriver {
	case "nats":
		nc, err := nats.Connect(c.NATSServerURL,
			nats.DrainTimeout(10*time.Second),
			nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
				log.Errorf("nats error: %v", err)
			}))
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to nats")
		}
		s.nc = nc
		s.bus = natsio.New(nc)
	case "redis":
		if s.rdb == nil {
			return nil, errors.New("bus driver 'redis' needs REDIS_URL")
		}
		s.bus = redisps.New(s.rdb)
	case "loopback":
		s.bus = bus.NewLoopback()
	default:
		return nil, fmt.Errorf("unknown bus driver '%s'", c.BusDriver)
	}

	return s, nil
}

func (s *routerServer) newStore() (storage.Interface, error) {
	switch s.c.StoreDriver {
	case "postgres":
		db, err := sqlx.Open("postgres", s.c.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open database")
		}
		if err := db.Ping(); err != nil {
			return nil, errors.Wrap(err, "failed to ping database")
		}
		s.db = db
		return postgres.NewStore(db), nil
	case "memory":
		return memory.NewStore(), nil
	}

	return nil, fmt.Errorf("unknown store driver '%s'", s.c.StoreDriver)
}

func (s *routerServer) newPresenceStore() presence.Store {
	ttl := time.Duration(s.c.PresenceTTLSeconds) * time.Second

	if s.rdb != nil {
		return presence.NewRedisStore(s.rdb, ttl)
	}

	log.Warn("no redis configured, presence is process-local")
	return presence.NewMemoryStore(ttl)
}

func (s *routerServer) Serve() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(logger())

	store, err := s.newStore()
	if err != nil {
		log.Error("failed to create store: ", err)
		os.Exit(1)
	}

	// Create the controller and attach it to the bus
	pres := s.newPresenceStore()
	ctrl := chat.NewController(store, pres, s.bus, s.tasks)
	if err := ctrl.Subscribe(); err != nil {
		log.Error("failed to subscribe to bus: ", err)
		os.Exit(1)
	}

	verifier := auth.NewJWTVerifier(s.c.JWTSecret, s.c.JWTIssuer)

	// Register the chat endpoint and the operational API
	chatHandler := chat.NewHandler(ctrl, verifier)
	chatHandler.RegisterRoutes(e)

	apiHandler := api.NewHandler(ctrl, pres, store)
	apiHandler.RegisterRoutes(e)

	go func() {
		log.WithFields(log.Fields{
			"host": s.c.BindHost,
			"port": s.c.BindPort,
		}).Info("Starting server")

		if err := e.Start(fmt.Sprintf("%s:%d", s.c.BindHost, s.c.BindPort)); err != nil {
			e.Logger.Info("Shutting down the server")
		}
	}()

	// Wait until receiving the quit signal
	<-s.quitCh
	log.Info("Shutdown signal received")

	// Create a 10 second timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the echo web server
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Error(err)
	}

	// We've done!
	s.doneCh <- true
}

// logger returns a middleware that logs HTTP requests.
func logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			var err error
			if err = next(c); err != nil {
				c.Error(err)
			}
			stop := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}

			log.WithFields(log.Fields{
				"timestamp":   stop.Format(time.RFC3339),
				"id":          id,
				"remote_ip":   c.RealIP(),
				"host":        req.Host,
				"method":      req.Method,
				"uri":         req.RequestURI,
				"protocol":    req.Proto,
				"user_agent":  req.UserAgent(),
				"status":      res.Status,
				"status_text": http.StatusText(res.Status),
				"error":       errMsg,
				"bytes_out":   res.Size,
				"latency":     stop.Sub(start).Nanoseconds(),
			}).Infof("%s %s %s %d %s", req.Method, req.RequestURI, req.Proto,
				res.Status, strconv.FormatInt(res.Size, 10))

			return err
		}
	}
}

func (s *routerServer) Shutdown() {
	if s.bus != nil {
		s.bus.Close()
	}
	if s.nc != nil {
		s.nc.Drain()
	}
	if s.tasks != nil {
		s.tasks.Shutdown()
	}
	if s.db != nil {
		s.db.Close()
	}
	if s.rdb != nil {
		s.rdb.Close()
	}

	// Send the quit signal to the server.Serve() routine
	s.quitCh <- true

	// Wait up to 10 seconds
	select {
	case <-s.doneCh:
		log.Info("Shutdown server successful")
	case <-time.After(10 * time.Second):
		log.Error("Shutdown server failed")
	}
}

// RunServeRouter starts one stateless router process.
func RunServeRouter(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		s, err := newRouterServer(c)
		if err != nil {
			log.Error("failed to create new server instance: ", err)
			os.Exit(1)
		}

		go s.Serve()

		// Wait for interrupt signal to gracefully shutdown the server
		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, os.Interrupt)
		<-quitCh

		// Shutdown the server
		s.Shutdown()
	}
}
