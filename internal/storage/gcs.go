// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCSClient is Client for accessing Google Cloud Storage.
type GCSClient struct {
	*storage.Client
}

// NewObjectHandle returns a handle to a specified object in the
// storage engine.
func (c GCSClient) NewObjectHandle(bucket, object string) ObjectHandle {
	return gcsObjectHandle{c.Bucket(bucket).Object(object)}
}

type gcsObjectHandle struct {
	*storage.ObjectHandle
}

func (h gcsObjectHandle) NewReader(ctx context.Context) (io.ReadCloser, error) {
	return h.ObjectHandle.NewReader(ctx)
}

func (h gcsObjectHandle) NewWriter(ctx context.Context) (io.WriteCloser, error) {
	return h.ObjectHandle.NewWriter(ctx), nil
}

// NewDefaultClient returns a storage client that uses the application default
// credentials.
func NewDefaultClient(ctx context.Context) (Client, error) {
	return newClientWithOptions(ctx)
}

// NewPublicClient returns a storage client that does not use any form of
// client authorization.  It can only be used to read publicly-readable
// objects.
func NewPublicClient(ctx context.Context) (Client, error) {
	return newClientWithOptions(ctx, option.WithHTTPClient(http.DefaultClient))
}

// NewClientFromToken returns a storage client that authenticates every request
// with the OAuth2 access token.
func NewClientFromToken(ctx context.Context, accessToken string) (Client, error) {
	token := oauth2.Token{
		TokenType:   "Bearer",
		AccessToken: accessToken,
	}
	return newClientWithOptions(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&token)))
}

func newClientWithOptions(ctx context.Context, opts ...option.ClientOption) (Client, error) {
	gcs, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %v", err)
	}
	return GCSClient{gcs}, nil
}

// describeError adds a short explanation to the well known storage failures.
func describeError(err error) error {
	if err == storage.ErrObjectNotExist || err == storage.ErrBucketNotExist {
		return fmt.Errorf("object does not exist: %v", err)
	}
	if err, ok := err.(*googleapi.Error); ok {
		switch err.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("invalid authentication: %v", err)
		case http.StatusForbidden:
			return fmt.Errorf("permission denied: %v", err)
		}
	}
	return err
}
