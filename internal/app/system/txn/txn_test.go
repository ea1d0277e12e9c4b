package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsNotSupported(t *testing.T) {
	standalone := mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"standalone server", standalone, true},
		{"wrapped standalone server", fmt.Errorf("link organizer: %w", standalone), true},
		{"write conflict", mongo.CommandError{Code: 112, Message: "WriteConflict"}, false},
		{"duplicate key", errors.New("E11000 duplicate key error collection: events"), false},
		{"sessions unsupported", errors.New("current topology does not support sessions: session not supported"), true},
		{"context deadline", context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestInTransaction(t *testing.T) {
	if InTransaction(context.Background()) {
		t.Error("expected background context to report no transaction")
	}
	if !InTransaction(context.WithValue(context.Background(), ctxKey{}, true)) {
		t.Error("expected marked context to report a transaction")
	}
}

func TestRunPlain_RunsOnceOutsideTransaction(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cause := mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}

	calls := 0
	var sawTxn bool
	err := runPlain(context.Background(), zap.New(core), func(ctx context.Context) error {
		calls++
		sawTxn = InTransaction(ctx)
		return nil
	}, cause)

	if err != nil {
		t.Fatalf("runPlain: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn calls: got %d, want 1", calls)
	}
	if sawTxn {
		t.Error("fn saw a transaction context on the fallback path")
	}
	if logs.FilterMessage("transactions not supported; running without").Len() != 1 {
		t.Errorf("expected one fallback log entry, got %v", logs.All())
	}
}

func TestRunPlain_ReturnsFnError(t *testing.T) {
	want := errors.New("link failed")
	compensated := false
	err := runPlain(context.Background(), nil, func(ctx context.Context) error {
		if !InTransaction(ctx) {
			compensated = true
		}
		return want
	}, errors.New("session not supported"))

	if !errors.Is(err, want) {
		t.Errorf("got %v, want %v", err, want)
	}
	if !compensated {
		t.Error("fn did not take its non-transactional branch")
	}
}
