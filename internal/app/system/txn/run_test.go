package txn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/cleanupcrew/internal/app/system/txn"
	"github.com/dalemusser/cleanupcrew/internal/testutil"
	"go.uber.org/zap"
)

// Run either commits in a transaction or, on a standalone server, retries
// fn without one after the first write is rejected. Either way exactly one
// write lands and fn's own error is returned unchanged.
func TestRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := txn.Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		_, err := db.Collection("txn_run").InsertOne(ctx, map[string]string{"k": "v"})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, err := db.Collection("txn_run").CountDocuments(ctx, map[string]string{})
	if err != nil || n != 1 {
		t.Errorf("documents after Run: %d, %v", n, err)
	}

	want := errors.New("boom")
	if err := txn.Run(ctx, db, nil, func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("got %v, want %v", err, want)
	}
}
