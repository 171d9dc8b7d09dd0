package s3

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, region string, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:           region,
		BaseEndpoint:     aws.String(server.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		RetryMaxAttempts: 1,
	})

	return &Client{s3: client, region: region}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(context.Background(), "us-east-1", "test-access-key", "test-secret-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.region != "us-east-1" {
		t.Errorf("expected region us-east-1, got %s", client.region)
	}
}

func TestEnsureBucket_Creates(t *testing.T) {
	var gotMethod string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
	})

	client := testClient(t, "us-east-1", handler)

	if err := client.EnsureBucket(context.Background(), "fedora-test-us-east-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != "PUT" {
		t.Errorf("expected PUT request, got %s", gotMethod)
	}
}

func TestEnsureBucket_AlreadyOwnedByYou(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 409, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>BucketAlreadyOwnedByYou</Code>
  <Message>Your previous request to create the named bucket succeeded and you already own it.</Message>
  <BucketName>fedora-test-us-east-1</BucketName>
</Error>`)
	})

	client := testClient(t, "us-east-1", handler)

	if err := client.EnsureBucket(context.Background(), "fedora-test-us-east-1"); err != nil {
		t.Fatalf("expected nil error for already owned bucket, got: %v", err)
	}
}

func TestEnsureBucket_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 403, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	})

	client := testClient(t, "eu-west-1", handler)

	if err := client.EnsureBucket(context.Background(), "fedora-test-eu-west-1"); err == nil {
		t.Fatal("expected error for denied create")
	}
}

func TestBucketExists(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 200, "")
	})

	client := testClient(t, "us-east-1", handler)

	exists, err := client.BucketExists(context.Background(), "fedora-test-us-east-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected bucket to exist")
	}
}

func TestBucketExists_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 404, "")
	})

	client := testClient(t, "us-east-1", handler)

	exists, err := client.BucketExists(context.Background(), "fedora-test-us-east-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected bucket to not exist")
	}
}

func TestIsBucketAlreadyOwnedByYou(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"owned code", &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}, true},
		{"exists code", &smithy.GenericAPIError{Code: "BucketAlreadyExists"}, true},
		{"other code", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBucketAlreadyOwnedByYou(tt.err); got != tt.want {
				t.Errorf("isBucketAlreadyOwnedByYou() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"not found code", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"no such bucket code", &smithy.GenericAPIError{Code: "NoSuchBucket"}, true},
		{"other code", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFoundError(tt.err); got != tt.want {
				t.Errorf("isNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}
