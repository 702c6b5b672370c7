package repository_test

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/testutil"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

// pgSuite is embedded by every repository suite.
type pgSuite struct {
	suite.Suite

	container testcontainers.Container
	pool      *pgxpool.Pool
	catalog   *testutil.Catalog
}

func (s *pgSuite) startPostgres(ctx context.Context) error {
	container, connStr, err := testutil.StartPostgres(ctx)
	if err != nil {
		return fmt.Errorf("testutil.StartPostgres: %w", err)
	}
	s.container = container

	s.pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}

	s.catalog = testutil.NewCatalog(s.pool)

	return nil
}

func (s *pgSuite) stopPostgres() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *pgSuite) deleteAll() {
	s.NoError(testutil.Truncate(s.T().Context(), s.pool))
}
