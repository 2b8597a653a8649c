package repository

import (
	"context"

	"github.com/gameflow/api/internal/database"
	"github.com/gameflow/api/internal/model"
)

// MetadataRepository handles genre, platform, developer and publisher lookups
type MetadataRepository struct {
	db database.Database
}

// NewMetadataRepository creates a new metadata repository
func NewMetadataRepository(db database.Database) *MetadataRepository {
	return &MetadataRepository{db: db}
}

// ListGenres retrieves all genres ordered by name
func (r *MetadataRepository) ListGenres(ctx context.Context) ([]model.Reference, error) {
	return r.listTable(ctx, "genre")
}

// ListPlatforms retrieves all platforms ordered by name
func (r *MetadataRepository) ListPlatforms(ctx context.Context) ([]model.Reference, error) {
	return r.listTable(ctx, "platform")
}

// ListDevelopers retrieves all developers ordered by name
func (r *MetadataRepository) ListDevelopers(ctx context.Context) ([]model.Reference, error) {
	return r.listTable(ctx, "developer")
}

// ListPublishers retrieves all publishers ordered by name
func (r *MetadataRepository) ListPublishers(ctx context.Context) ([]model.Reference, error) {
	return r.listTable(ctx, "publisher")
}

func (r *MetadataRepository) listTable(ctx context.Context, table string) ([]model.Reference, error) {
	query := `SELECT * FROM type::table($table) ORDER BY name ASC`
	vars := map[string]interface{}{"table": table}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	refs := make([]model.Reference, 0)
	for _, raw := range result {
		for _, row := range unwrapRows(raw) {
			if ref := parseReference(row); ref != nil {
				refs = append(refs, *ref)
			}
		}
	}
	return refs, nil
}
