package drive

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Diagnose verifies that the configured root folder is reachable and
// writable: it fetches the folder metadata, creates a small probe file,
// and deletes it again. Returns human-readable result lines, one per check.
func (c *Client) Diagnose(ctx context.Context, rootFolderID string) []string {
	var results []string

	folder, err := c.svc.Files.Get(rootFolderID).Fields("id, name").Context(ctx).Do()
	if err != nil {
		results = append(results, fmt.Sprintf("❌ Carpeta raíz inaccesible: %v", err))
		return results
	}
	results = append(results, fmt.Sprintf("✅ Carpeta raíz accesible: %s", folder.Name))

	probeName := "bot_probe_" + uuid.NewString() + ".txt"
	probeID, err := c.CreateFile(ctx, probeName, rootFolderID, []byte("probe"), "text/plain")
	if err != nil {
		results = append(results, fmt.Sprintf("❌ Sin permiso de escritura: %v", err))
		return results
	}

	if err := c.svc.Files.Delete(probeID).Context(ctx).Do(); err != nil {
		// The probe file is harmless if left behind; the write check passed.
		log.Warn().Err(err).Str("probeId", probeID).Msg("Probe file cleanup failed")
	}
	results = append(results, "✅ Permisos de escritura verificados")

	return results
}
