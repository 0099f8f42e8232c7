package manifest

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/navstate/pkg/tree"
)

// LoadS3 fetches and decodes a route manifest object from S3. A
// manifest is a route definition source, not navigation-state
// persistence: it is read once at startup, the same way a config file
// would be, and never written back to.
func LoadS3(ctx context.Context, client *s3.Client, bucket, key string) ([]tree.RouteDef, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return decode(out.Body)
}
