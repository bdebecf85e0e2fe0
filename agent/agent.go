package agent

import (
	"database/sql"
	"sync"

	"github.com/chad-area/area/config"
	"github.com/chad-area/area/lifecycle"
	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/persistence/postgres"
	"github.com/chad-area/area/persistence/redis"
	"github.com/chad-area/area/provider/discord"
	"github.com/chad-area/area/provider/github"
	"github.com/chad-area/area/provider/reddit"
	"github.com/chad-area/area/provider/slack"
	"github.com/chad-area/area/provider/spotify"
	"github.com/chad-area/area/reaction"
	"github.com/chad-area/area/registry"
	"github.com/chad-area/area/rest"
	"github.com/chad-area/area/trigger"
	"github.com/chad-area/area/worker"
)

// Agent owns the full process: storage, dispatch registry, the four polling
// workers and the http server. Setup runs in dependency order and Shutdown
// unwinds it, waiting for every worker goroutine to drain.
type Agent struct {
	Config config.Config

	db             *sql.DB
	workflowDao    *postgres.WorkflowDao
	userServiceDao *postgres.UserServiceDao
	logDao         *postgres.LogDao
	cursorStore    *redis.CursorStore

	registry *registry.Registry
	manager  *lifecycle.Manager

	timerWorker   *worker.TimerWorker
	redditWorker  *worker.RedditWorker
	slackWorker   *worker.SlackWorker
	spotifyWorker *worker.SpotifyWorker

	httpServer *rest.Server

	shutdown     bool
	shutdowns    chan struct{}
	shutdownLock sync.Mutex
	wg           sync.WaitGroup
}

func New(conf config.Config) (*Agent, error) {
	a := &Agent{
		Config:    conf,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupStorage,
		a.setupCursorStore,
		a.setupRegistry,
		a.setupLifecycle,
		a.setupWorkers,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	db, err := postgres.Open(a.Config.PostgresDSN)
	if err != nil {
		return err
	}
	a.db = db
	a.workflowDao = postgres.NewWorkflowDao(db)
	a.userServiceDao = postgres.NewUserServiceDao(db)
	a.logDao = postgres.NewLogDao(db)
	return nil
}

func (a *Agent) setupCursorStore() error {
	a.cursorStore = redis.NewCursorStore(redis.Config{
		Addrs:     a.Config.RedisConfig.Addrs,
		Namespace: a.Config.RedisConfig.Namespace,
	})
	return nil
}

func (a *Agent) setupRegistry() error {
	a.registry = registry.New()
	deps := trigger.Deps{
		Workflows:    a.workflowDao,
		UserServices: a.userServiceDao,
		Logs:         a.logDao,
		Cursors:      a.cursorStore,
		Github:       github.NewClient(),
		Reddit:       reddit.NewClient(),
		Slack:        slack.NewClient(),
		WorkflowURL:  a.Config.WorkflowURL,
	}
	if err := trigger.RegisterAll(a.registry, deps); err != nil {
		return err
	}
	reactions := reaction.NewDiscordReactions(discord.NewClient(a.Config.DiscordBotToken), a.logDao)
	return reactions.RegisterAll(a.registry)
}

func (a *Agent) setupLifecycle() error {
	a.manager = lifecycle.NewManager(a.workflowDao, a.logDao, a.registry)
	return nil
}

func (a *Agent) setupWorkers() error {
	a.timerWorker = worker.NewTimerWorker(a.workflowDao, a.logDao, a.registry, &a.wg)
	a.redditWorker = worker.NewRedditWorker(a.workflowDao, a.userServiceDao, a.logDao, a.cursorStore, reddit.NewClient(), a.registry, &a.wg)
	a.slackWorker = worker.NewSlackWorker(a.workflowDao, a.userServiceDao, a.logDao, a.cursorStore, slack.NewClient(), a.registry, &a.wg)
	a.spotifyWorker = worker.NewSpotifyWorker(a.workflowDao, a.userServiceDao, a.logDao, a.cursorStore, spotify.NewClient(), a.registry, &a.wg)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.manager, a.workflowDao, a.logDao, a.registry)
	return err
}

func (a *Agent) Start() error {
	a.timerWorker.Start()
	a.redditWorker.Start()
	a.slackWorker.Start()
	a.spotifyWorker.Start()

	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	a.timerWorker.Stop()
	a.redditWorker.Stop()
	a.slackWorker.Stop()
	a.spotifyWorker.Stop()

	shutdown := []func() error{
		a.httpServer.Stop,
		a.cursorStore.Close,
		a.db.Close,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all workers to shutdown...")
	a.wg.Wait()
	return nil
}
