package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihsaan797/InvoiceME/internal/models"
)

// InsertOne assigns an id if the record doesn't carry one and inserts it.
// Returns the same record so call sites can use the generated id directly.
func InsertOne(ctx context.Context, coll *mongo.Collection, doc models.IBase) (models.IBase, error) {
	doc.GenIDIfEmpty()
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert into %s failed: %w", coll.Name(), err)
	}
	return doc, nil
}
