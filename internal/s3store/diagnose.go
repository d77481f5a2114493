package s3store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Diagnose verifies that the bucket is reachable and writable under the
// root prefix: one list call, then a create-and-delete probe object.
// Returns human-readable result lines, one per check.
func (s *Store) Diagnose(ctx context.Context, rootPrefix string) []string {
	var results []string

	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(rootPrefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		results = append(results, fmt.Sprintf("❌ Bucket inaccesible: %v", err))
		return results
	}
	results = append(results, fmt.Sprintf("✅ Bucket accesible: %s", s.bucket))

	probeKey := rootPrefix + "bot_probe_" + uuid.NewString() + ".txt"
	if _, err := s.CreateFile(ctx, probeKey, "", []byte("probe"), "text/plain"); err != nil {
		results = append(results, fmt.Sprintf("❌ Sin permiso de escritura: %v", err))
		return results
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(probeKey),
	}); err != nil {
		log.Warn().Err(err).Str("key", probeKey).Msg("Probe object cleanup failed")
	}
	results = append(results, "✅ Permisos de escritura verificados")

	return results
}
