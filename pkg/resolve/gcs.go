// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

// GCSLister lists experiment recordings in a Cloud Storage bucket using
// Application Default Credentials.
type GCSLister struct {
	bucket *storage.BucketHandle
}

// NewGCSLister opens the bucket holding the experiment recordings.
func NewGCSLister(ctx context.Context, bucketName string) (*GCSLister, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "creating Cloud Storage client")
	}
	return &GCSLister{bucket: client.Bucket(bucketName)}, nil
}

// ListObjects returns the names of every object under prefix, in listing
// order. One synchronous pass, no retries: retry policy belongs to the SDK.
func (l *GCSLister) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	it := l.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "listing objects under %q", prefix)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}
