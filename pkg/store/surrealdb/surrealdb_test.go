package surrealdb_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Taskana/TaskanaTestDataGenerator/internal/fakesdb"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store/storetest"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store/surrealdb"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/surrealrpc"
)

func open(t *testing.T, server *fakesdb.Server, opts ...surrealdb.Option) *surrealdb.Store {
	t.Helper()
	s, err := surrealdb.New(context.Background(), surrealdb.Config{
		URL:       server.URL(),
		Namespace: "taskana",
		Database:  "testdata",
		Username:  "root",
		Password:  "root",
	}, opts...)
	require.NoError(t, err)
	return s
}

func TestContract(t *testing.T) {
	server := fakesdb.NewServer("root", "root")
	defer server.Close()

	suite.Run(t, &storetest.Suite{NewStore: func() store.Store {
		return open(t, server)
	}})
}

func count(queries []string, text string) int {
	n := 0
	for _, q := range queries {
		if strings.Contains(q, text) {
			n++
		}
	}
	return n
}

func TestPersist(t *testing.T) {
	server := fakesdb.NewServer("root", "root")
	defer server.Close()
	s := open(t, server, surrealdb.WithBatchSize(4))
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	bundle := storetest.Bundle(t)
	require.NoError(t, store.Persist(ctx, s, bundle, zerolog.Nop()))

	queries := server.Queries()
	assert.Contains(t, queries[0], "DEFINE TABLE IF NOT EXISTS workbasket")
	assert.Equal(t, 2, count(queries, "INSERT INTO workbasket $rows"))
	assert.Equal(t, 4, count(queries, "RELATE $p->distributes_to->$c"))
	assert.Equal(t, 2, count(queries, "INSERT INTO classification $rows"))
	assert.Equal(t, 1, count(queries, "INSERT INTO task $rows"))

	var relates []map[string]any
	for _, r := range server.Requests() {
		if r.Method == "query" && strings.Contains(r.Params[0].(string), "RELATE") {
			relates = append(relates, r.Params[1].(map[string]any))
		}
	}
	require.Len(t, relates, 4)
	edges := store.Edges(bundle.Containers)
	assert.Equal(t, edges[0].ParentID, relates[0]["parent"])
	assert.Equal(t, edges[0].ChildID, relates[0]["child"])
}

func TestTaskDocuments(t *testing.T) {
	server := fakesdb.NewServer("root", "root")
	defer server.Close()
	s := open(t, server)
	defer s.Close()

	bundle := storetest.Bundle(t)
	require.NoError(t, s.CreateItems(context.Background(), bundle.Items))

	last := server.Requests()[len(server.Requests())-1]
	rows := last.Params[1].(map[string]any)["rows"].([]any)
	require.Len(t, rows, len(bundle.Items))

	doc := rows[0].(map[string]any)
	it := bundle.Items[0]
	assert.Equal(t, it.ID, doc["id"])
	assert.Equal(t, it.ContainerID, doc["workbasket"])
	assert.Equal(t, it.Classification.ID, doc["classification"])
	assert.Len(t, doc["attachments"], 1)
	assert.Len(t, doc["custom_attributes"], 20)
}

func TestFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("failed statement", func(t *testing.T) {
		server := fakesdb.NewServer("root", "root")
		defer server.Close()
		server.AddStubResponse(fakesdb.StubResponse{
			Matcher: fakesdb.MatchQueryContaining("INSERT INTO classification"),
			Result:  []map[string]any{{"status": "ERR", "result": "Database index `classification` already contains"}},
		})
		s := open(t, server)
		defer s.Close()

		err := store.Persist(ctx, s, storetest.Bundle(t), zerolog.Nop())
		require.ErrorIs(t, err, store.ErrPersistence)
		assert.ErrorIs(t, err, surrealrpc.ErrQuery)

		var pErr *store.PersistenceError
		require.ErrorAs(t, err, &pErr)
		assert.Equal(t, store.OpCreateClassifications, pErr.Op)
		assert.Zero(t, count(server.Queries(), "INSERT INTO task"))
	})

	t.Run("bad credentials", func(t *testing.T) {
		server := fakesdb.NewServer("root", "root")
		defer server.Close()

		_, err := surrealdb.New(ctx, surrealdb.Config{URL: server.URL(), Namespace: "n", Database: "d", Username: "root", Password: "x"})
		var rpcErr *surrealrpc.Error
		assert.ErrorAs(t, err, &rpcErr)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := fakesdb.NewServer("", "")
		url := server.URL()
		server.Close()

		_, err := surrealdb.New(ctx, surrealdb.Config{URL: url, Namespace: "n", Database: "d"})
		assert.Error(t, err)
	})
}
