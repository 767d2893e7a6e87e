// Package store provides shared storage for named source configurations.
//
// Teams publish a sources config once under a name and render diagrams from
// it anywhere, instead of passing config files around. The MongoDB backend
// is the only implementation; the Store interface keeps the CLI decoupled
// from the driver.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/sourceflow/pkg/source"
)

// ConfigRecord is a published sources configuration.
type ConfigRecord struct {
	Name      string        `bson:"_id" json:"name"`
	Config    source.Config `bson:"config" json:"config"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// Store is the interface for named configuration storage.
type Store interface {
	// Publish stores config under name, replacing any previous version.
	Publish(ctx context.Context, name string, config source.Config) error

	// Fetch retrieves a published config by name.
	// Fails NOT_FOUND if no config was published under name.
	Fetch(ctx context.Context, name string) (*ConfigRecord, error)

	// List returns all published records sorted by name.
	List(ctx context.Context) ([]ConfigRecord, error)

	// Delete removes a published config.
	// Fails NOT_FOUND if no config was published under name.
	Delete(ctx context.Context, name string) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
