package internal

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pitboss/pitboss/internal/blackjack"
	"github.com/pitboss/pitboss/internal/core"
	"github.com/pitboss/pitboss/internal/core/data"
	"github.com/pitboss/pitboss/internal/discovery"
)

// Controller is the main entrypoint for the server. It's responsible for
// initializing shared resources (database, logging, the discovery
// broadcaster), defining the servers, and launching everything.
type Controller struct {
	Config *core.Config

	logger *logrus.Logger
	wg     sync.WaitGroup

	db          *gorm.DB
	broadcaster *discovery.Broadcaster
	servers     []*frontend
}

func (c *Controller) Start(ctx context.Context) error {
	var err error
	// Set up the logger, which will be used by all components.
	c.logger, err = core.NewLogger(c.Config)
	if err != nil {
		return err
	}

	c.db, err = data.Initialize(c.Config.Database.Path, c.Config.Debugging.DatabaseLoggingEnabled)
	if err != nil {
		c.logger.Errorf("error initializing database: %v", err)
		return err
	}
	defer c.shutdown()

	// The broadcaster runs independently of the game server; clients can
	// discover us while any number of sessions are in flight.
	c.broadcaster = &discovery.Broadcaster{
		ServerName: c.Config.ServerName,
		TCPPort:    uint16(c.Config.GameServer.Port),
		Port:       c.Config.Discovery.Port,
		Interval:   c.Config.BroadcastInterval(),
		Logger:     c.logger,
	}
	if err := c.broadcaster.Start(ctx, &c.wg); err != nil {
		c.logger.Errorf("error starting discovery broadcaster: %v", err)
		return err
	}

	c.declareServers()
	c.run(ctx)
	return nil
}

// Set up all of the servers we want to run.
func (c *Controller) declareServers() {
	c.servers = []*frontend{
		{
			Address: c.Config.GameAddress(),
			Backend: &blackjack.Server{
				Name:   "GAME",
				Config: c.Config,
				Logger: c.logger,
				Store:  &gameStore{db: c.db},
			},
		},
	}
}

func (c *Controller) run(ctx context.Context) {
	// Start all of our servers. Failure to initialize one of the registered
	// servers is considered terminal.
	for _, server := range c.servers {
		server.Config = c.Config
		server.Logger = c.logger
		server.registry = newSessionRegistry()

		if err := server.Start(ctx, &c.wg); err != nil {
			c.logger.Errorf("error starting %s server: %v", server.Backend.Identifier(), err)
			return
		}
	}

	c.wg.Wait()
}

func (c *Controller) shutdown() {
	if err := data.Shutdown(c.db); err != nil {
		c.logger.Warnf("error closing database: %v", err)
	}
}
