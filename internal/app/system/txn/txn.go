// internal/app/system/txn/txn.go

// Package txn runs multi-document writes inside a MongoDB transaction when
// the deployment supports one.
//
// Standalone servers reject transactions. In that case Run falls back to
// executing fn directly, and fn can call InTransaction to decide whether it
// must apply its own compensating correction on failure.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ctxKey struct{}

// InTransaction reports whether ctx belongs to a running transaction
// started by Run.
func InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKey{}).(bool)
	return v
}

// Run executes fn inside a transaction on db's client. If transactions are
// not supported it logs and runs fn without one.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runPlain(ctx, log, fn, err)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(context.WithValue(sc, ctxKey{}, true))
	})
	if err != nil && IsNotSupported(err) {
		return runPlain(ctx, log, fn, err)
	}
	return err
}

func runPlain(ctx context.Context, log *zap.Logger, fn func(ctx context.Context) error, cause error) error {
	if log != nil {
		log.Debug("transactions not supported; running without", zap.Error(cause))
	}
	return fn(ctx)
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone mongod, some hosted vendors).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "transaction") &&
		(strings.Contains(s, "replica set") || strings.Contains(s, "session")) {
		return true
	}
	if strings.Contains(s, "session") && strings.Contains(s, "not supported") {
		return true
	}
	return strings.Contains(s, "illegal operation") && strings.Contains(s, "transaction")
}
