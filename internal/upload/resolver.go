package upload

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// FolderResolver idempotently maps a folder name under a parent to a
// remote folder id: an existing non-trashed folder of that exact name is
// reused, and one is created only when none is found. Resolutions are
// memoized for the lifetime of the resolver, which is one finalize call;
// a new session re-resolves.
//
// Concurrent finalizes for the same point of sale may still race in the
// backend and produce a duplicate folder. That is tolerated degraded
// behavior, not something the resolver tries to prevent.
type FolderResolver struct {
	store AssetStore
	cache map[string]string
}

// NewFolderResolver creates a resolver over the given store.
func NewFolderResolver(store AssetStore) *FolderResolver {
	return &FolderResolver{
		store: store,
		cache: make(map[string]string),
	}
}

// Resolve returns the folder id for name under parentID, creating the
// folder if it does not exist yet.
func (r *FolderResolver) Resolve(ctx context.Context, name, parentID string) (string, error) {
	key := parentID + "/" + name
	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	id, err := r.store.ListFolder(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("list folder %q: %w", name, err)
	}
	if id != "" {
		log.Debug().Str("folder", name).Str("folderId", id).Msg("Folder found")
		r.cache[key] = id
		return id, nil
	}

	id, err = r.store.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	log.Info().Str("folder", name).Str("folderId", id).Msg("Folder created")
	r.cache[key] = id
	return id, nil
}
