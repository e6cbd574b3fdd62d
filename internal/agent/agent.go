package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/tagalong/internal/autosort"
	"github.com/mwantia/tagalong/internal/config"
	"github.com/mwantia/tagalong/internal/index"
	"github.com/mwantia/tagalong/pkg/db/store"
	"github.com/mwantia/tagalong/pkg/hasher"
	"github.com/mwantia/tagalong/pkg/log"
)

const cleanupTimeout = 10 * time.Second

type TagalongAgent struct {
	cfg *config.BaseConfig
	sc  *container.ServiceContainer
	log log.LoggerService
}

func NewAgent(cfg *config.BaseConfig) *TagalongAgent {
	return &TagalongAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("tagalong", cfg.Log),
	}
}

// pipeline is resolved from the service container once every service it
// depends on has been registered.
type pipeline struct {
	Log     log.LoggerService  `fabric:"logger"`
	Store   *store.SQLiteStore `fabric:"inject"`
	Scanner *index.Scanner     `fabric:"inject"`
	Engine  *autosort.Engine   `fabric:"inject"`
}

func (ta *TagalongAgent) setupServices(st *store.SQLiteStore) error {
	ta.sc.AddTagProcessor(log.NewLoggerTagProcessor())

	errs := container.Errors{}

	ta.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[*log.LoggerServiceImpl](ta.sc,
		container.With[log.LoggerService](),
		container.WithInstance(ta.log)))

	ta.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[*store.SQLiteStore](ta.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(st)))

	errs.Add(container.Register[hasher.HasherFunc](ta.sc,
		container.With[hasher.Hasher](),
		container.WithInstance(hasher.Default)))
	errs.Add(container.Register[config.AutosortConfig](ta.sc,
		container.WithInstance(ta.cfg.Autosort)))

	ta.log.Debug("Registering 'Scanner' and 'Engine'...")
	errs.Add(container.Register[*index.Scanner](ta.sc))
	errs.Add(container.Register[*autosort.Engine](ta.sc))
	errs.Add(container.Register[*pipeline](ta.sc))

	return errs.Errors()
}

// Run migrates the store at storePath, rescans root and rebuilds all
// documents. Each phase commits on its own; the first error aborts the run.
func (ta *TagalongAgent) Run(ctx context.Context, storePath, root string) error {
	st, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:     storePath,
		LogLevel: store.ParseLogLevel(ta.cfg.Store.LogLevel),
	})
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to store %s: %w", storePath, err)
	}

	if err := ta.setupServices(st); err != nil {
		return err
	}
	defer ta.cleanup()

	p, err := container.Resolve[*pipeline](ctx, ta.sc)
	if err != nil {
		return fmt.Errorf("failed to resolve services: %w", err)
	}

	return p.run(ctx, root)
}

func (ta *TagalongAgent) cleanup() {
	shutdown, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := ta.sc.Cleanup(shutdown); err != nil {
		ta.log.Warn("Failed to complete service container cleanup: %v", err)
	}
}

func (p *pipeline) run(ctx context.Context, root string) error {
	migrator := p.Store.Migrator()
	if !migrator.Initialized(ctx) {
		p.Log.Info("Initializing store %s", p.Store.Path())
	}

	if err := p.Store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}

	statuses, err := migrator.Status(ctx)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		p.Log.Debug("Migration %d (%s) applied: %t", status.Version, status.Description, status.Applied)
	}

	p.Log.Info("Scanning %s", root)
	scanned, err := p.Scanner.Scan(ctx, p.Store, root)
	if err != nil {
		return err
	}
	p.Log.Info("Indexed %d files (%s, %d duplicates)", scanned.Files, humanize.IBytes(uint64(scanned.Bytes)), scanned.Duplicates)

	p.Log.Info("Sorting documents")
	sorted, err := p.Engine.Run(ctx, p.Store)
	if err != nil {
		return fmt.Errorf("autosort failed: %w", err)
	}
	p.Log.Info("Sorted %d files into %d documents (%d ignored, %d skipped)", sorted.Files, sorted.Documents, sorted.Ignored, sorted.Skipped)

	return nil
}
