package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gazecenter/adapters/gazefile"
	"gazecenter/adapters/memory"
	"gazecenter/adapters/mqtt"
	"gazecenter/adapters/objectstore"
	"gazecenter/adapters/postgres"
	"gazecenter/app"
	"gazecenter/internal"
	"gazecenter/internal/api"
	"gazecenter/internal/config"
	"gazecenter/internal/migration"
	"gazecenter/ports"
)

// memoryHistoryCapacity bounds the in-process history when no database is set
const memoryHistoryCapacity = 500

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	Source    ports.ParticipantSource
	History   ports.SummaryRepository
	Publisher app.Publishers
	SSEHub    *api.SSEHub
	Uploads   *app.UploadStore

	Service *app.AnalysisService

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{
		Config: cfg,
		logger: internal.DefaultLogger.With("Container"),
	}, nil
}

// Init connects every configured backend and builds the analysis service.
// withEvents adds the SSE hub to the publishers.
func (c *Container) Init(ctx context.Context, withEvents bool) error {
	if err := c.initSource(); err != nil {
		return err
	}
	if err := c.initHistory(ctx); err != nil {
		return err
	}
	if err := c.initPublishers(withEvents); err != nil {
		return err
	}

	c.Uploads = app.NewUploadStore(c.Config.Analysis.UploadRetention)
	c.Service = app.NewAnalysisService(c.Source, c.Uploads, c.History, c.Publisher, app.ServiceConfig{
		AggregateConcurrency: c.Config.Analysis.AggregateConcurrency,
	})
	c.logger.Info("participants from %s", c.Source.Describe())
	return nil
}

func (c *Container) initSource() error {
	switch c.Config.Source.Kind {
	case config.SourceBucket:
		st := c.Config.Storage
		src, err := objectstore.NewBucketSource(objectstore.Options{
			Endpoint:  st.Endpoint,
			AccessKey: st.AccessKey,
			SecretKey: st.SecretKey,
			Bucket:    st.Bucket,
			Prefix:    st.Prefix,
			UseSSL:    st.UseSSL,
		})
		if err != nil {
			return err
		}
		c.Source = src
	default:
		c.Source = gazefile.NewDirectorySource(c.Config.Source.Dir)
	}
	return nil
}

func (c *Container) initHistory(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.logger.Info("DATABASE_URL not set, keeping history in memory")
		c.History = memory.NewSummaryRepository(memoryHistoryCapacity)
		return nil
	}

	db, err := postgres.Connect(ctx, c.Config.Database.URL, migration.NewRunner().Run)
	if err != nil {
		return err
	}
	c.DB = db
	c.History = postgres.NewSummaryRepository(db)
	return nil
}

func (c *Container) initPublishers(withEvents bool) error {
	if c.Config.MQTT.Broker != "" {
		pub, err := mqtt.NewPublisher(c.Config.MQTT.Broker, c.Config.MQTT.ClientID, c.Config.MQTT.Topic)
		if err != nil {
			return err
		}
		c.logger.Info("publishing summaries to %s on %s", c.Config.MQTT.Topic, c.Config.MQTT.Broker)
		c.Publisher = append(c.Publisher, pub)
	}
	if withEvents {
		c.SSEHub = api.NewSSEHub()
		c.Publisher = append(c.Publisher, c.SSEHub)
	}
	return nil
}

// Shutdown releases every backend
func (c *Container) Shutdown(ctx context.Context) error {
	c.Publisher.Close()
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
