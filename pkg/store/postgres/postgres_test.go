package postgres_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store/postgres"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store/storetest"
)

// dryRun opens a store that renders SQL without a database and collects
// every INSERT it would run.
func dryRun(t *testing.T, opts ...postgres.Option) (*postgres.Store, *[]string) {
	t.Helper()
	dialector := gormpg.New(gormpg.Config{DSN: "host=localhost user=taskana dbname=taskana sslmode=disable"})
	s, err := postgres.Open(dialector, &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var statements []string
	err = s.DB().Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	})
	require.NoError(t, err)
	return s, &statements
}

func count(statements []string, prefix string) int {
	n := 0
	for _, s := range statements {
		if strings.HasPrefix(s, prefix) {
			n++
		}
	}
	return n
}

func TestPersistRendersInserts(t *testing.T) {
	s, statements := dryRun(t)
	bundle := storetest.Bundle(t)

	require.NoError(t, store.Persist(context.Background(), s, bundle, zerolog.Nop()))

	assert.Equal(t, 1, count(*statements, `INSERT INTO "workbasket"`))
	assert.Equal(t, 4, count(*statements, `INSERT INTO "distribution_targets"`))
	assert.Equal(t, 1, count(*statements, `INSERT INTO "workbasket_access_list"`))
	assert.Equal(t, 1, count(*statements, `INSERT INTO "classification"`))
	assert.Equal(t, 1, count(*statements, `INSERT INTO "task"`))
	assert.Equal(t, 1, count(*statements, `INSERT INTO "attachment"`))

	first := (*statements)[0]
	for _, column := range []string{`"id"`, `"key"`, `"domain"`, `"owner"`, `"org_level1"`, `"created"`} {
		assert.Contains(t, first, column)
	}
}

func TestBatchSize(t *testing.T) {
	s, statements := dryRun(t, postgres.WithBatchSize(2))
	bundle := storetest.Bundle(t)

	require.NoError(t, s.CreateContainers(context.Background(), bundle.Containers))
	assert.Equal(t, 3, count(*statements, `INSERT INTO "workbasket"`))
}

func TestEmptyBatchesAreSkipped(t *testing.T) {
	s, statements := dryRun(t)
	ctx := context.Background()

	require.NoError(t, s.CreateContainers(ctx, nil))
	require.NoError(t, s.CreateItems(ctx, nil))
	assert.Empty(t, *statements)
}
