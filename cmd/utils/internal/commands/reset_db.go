package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// ResetDB drops the inventory database. USE WITH CAUTION.
func ResetDB(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	name := databaseName(config)
	logger.Infof("DANGER: this will drop the %s database and cannot be undone", name)

	client, err := connectMongo(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	if err := client.Database(name).Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", name, err)
	}

	logger.Infof("Database %s dropped", name)
	return nil
}
