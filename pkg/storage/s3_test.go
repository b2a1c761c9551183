package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type mockS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.input = params
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	client := &mockS3{}
	u := newS3Uploader(client, "heartcoach-exports", "exports/", zap.NewNop())

	key, err := u.Upload(context.Background(), "vitals/u1.csv", "text/csv", []byte("a,b\n"))
	if err != nil {
		t.Fatalf("Upload error = %v", err)
	}

	if key != "exports/vitals/u1.csv" {
		t.Errorf("key = %q, want %q", key, "exports/vitals/u1.csv")
	}
	if got := aws.ToString(client.input.Bucket); got != "heartcoach-exports" {
		t.Errorf("bucket = %q, want %q", got, "heartcoach-exports")
	}
	if string(client.body) != "a,b\n" {
		t.Errorf("body = %q, want %q", client.body, "a,b\n")
	}
}

func TestS3Uploader_Error(t *testing.T) {
	u := newS3Uploader(&mockS3{err: errors.New("denied")}, "b", "", zap.NewNop())

	if _, err := u.Upload(context.Background(), "x.csv", "text/csv", nil); err == nil {
		t.Fatal("expected error")
	}
}
