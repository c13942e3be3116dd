// Package mongo connects to MongoDB using environment-driven configuration
// with bounded connect retries, and exposes a ping-based health check for the
// readiness endpoint.
//
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
